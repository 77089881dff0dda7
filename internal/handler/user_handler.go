package handler

import (
	"net/http"

	"geochat/internal/service"

	"go.uber.org/zap"
)

type UserHandler struct {
	userService service.UserService
	logger      *zap.SugaredLogger
}

func NewUserHandler(userService service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	if err := decodeJSON(r, &request); err != nil || request.Username == "" || request.Avatar == "" {
		writeFail(w, "参数缺失")
		return
	}

	url, thumb, err := h.userService.SetAvatar(request.Username, request.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, jsonBody{"success": true, "avatar": url, "avatarThumb": thumb})
}

func (h *UserHandler) SetGameTags(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string   `json:"username"`
		GameTags []string `json:"gameTags"`
	}
	if err := decodeJSON(r, &request); err != nil || request.Username == "" {
		writeFail(w, "参数缺失")
		return
	}
	if err := h.userService.SetGameTags(request.Username, request.GameTags); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// ListFriends returns a bare array; an unknown user has an empty friend list.
func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	friends, err := h.userService.ListFriends(username)
	if err != nil {
		h.logger.Errorw("friend list lookup failed", "username", username, "error", err)
		writeJSON(w, []string{})
		return
	}
	writeJSON(w, friends)
}

func (h *UserHandler) BatchInfo(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Usernames []string `json:"usernames"`
	}
	if err := decodeJSON(r, &request); err != nil || len(request.Usernames) == 0 {
		writeJSON(w, []service.PublicInfo{})
		return
	}
	infos, err := h.userService.BatchPublicInfo(request.Usernames)
	if err != nil {
		h.logger.Errorw("batch info lookup failed", "error", err)
		writeJSON(w, []service.PublicInfo{})
		return
	}
	writeJSON(w, infos)
}
