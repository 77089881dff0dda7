package handler

import (
	"net/http"

	"geochat/internal/service"

	"go.uber.org/zap"
)

type FriendHandler struct {
	friendService service.FriendService
	logger        *zap.SugaredLogger
}

func NewFriendHandler(friendService service.FriendService, logger *zap.SugaredLogger) *FriendHandler {
	return &FriendHandler{friendService: friendService, logger: logger}
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := decodeJSON(r, &request); err != nil {
		writeFail(w, "参数错误")
		return
	}
	if err := h.friendService.SendRequest(request.From, request.To); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (h *FriendHandler) OutgoingPending(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	pending, err := h.friendService.ListOutgoingPending(username)
	if err != nil {
		h.logger.Errorw("outgoing pending lookup failed", "username", username, "error", err)
		writeJSON(w, []string{})
		return
	}
	writeJSON(w, pending)
}

func (h *FriendHandler) IncomingPending(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	incoming, err := h.friendService.ListIncomingPending(username)
	if err != nil {
		h.logger.Errorw("incoming pending lookup failed", "username", username, "error", err)
		writeJSON(w, []service.IncomingRequest{})
		return
	}
	writeJSON(w, incoming)
}

func (h *FriendHandler) Rejected(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	rejected, err := h.friendService.ListRejected(username)
	if err != nil {
		h.logger.Errorw("rejected lookup failed", "username", username, "error", err)
		writeJSON(w, []string{})
		return
	}
	writeJSON(w, rejected)
}

func (h *FriendHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		From     string `json:"from"`
		Accept   bool   `json:"accept"`
	}
	if err := decodeJSON(r, &request); err != nil {
		writeFail(w, "参数错误")
		return
	}
	if err := h.friendService.Resolve(request.Username, request.From, request.Accept); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (h *FriendHandler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	var request struct {
		User1 string `json:"user1"`
		User2 string `json:"user2"`
	}
	if err := decodeJSON(r, &request); err != nil {
		writeFail(w, "参数错误")
		return
	}
	if err := h.friendService.RemoveFriend(request.User1, request.User2); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// FriendListEvents reports how many friend-list changes the user has not
// acknowledged yet, the durable fallback for missed pushes.
func (h *FriendHandler) FriendListEvents(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	count, err := h.friendService.UnreadFriendListChangeCount(username)
	if err != nil {
		h.logger.Errorw("friend-list event count failed", "username", username, "error", err)
		writeJSON(w, jsonBody{"count": 0})
		return
	}
	writeJSON(w, jsonBody{"count": count})
}

func (h *FriendHandler) FriendListEventsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &request); err != nil || request.Username == "" {
		writeFail(w, "参数缺失")
		return
	}
	if err := h.friendService.MarkFriendListChangesRead(request.Username); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}
