package handler

import (
	"net/http"

	"geochat/internal/entity"
	"geochat/internal/service"

	"go.uber.org/zap"
)

type MessageHandler struct {
	messageService service.MessageService
	logger         *zap.SugaredLogger
}

func NewMessageHandler(messageService service.MessageService, logger *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{messageService: messageService, logger: logger}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var request struct {
		From    string `json:"from"`
		To      string `json:"to"`
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := decodeJSON(r, &request); err != nil ||
		request.From == "" || request.To == "" || request.Content == "" {
		writeFail(w, "参数缺失")
		return
	}
	if _, err := h.messageService.Send(request.From, request.To, request.Content, request.Type); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// History returns the viewer's copy of the conversation and marks it read.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	viewer, other := query.Get("user1"), query.Get("user2")
	if viewer == "" || other == "" {
		writeJSON(w, []*entity.Message{})
		return
	}
	messages, err := h.messageService.History(viewer, other)
	if err != nil {
		h.logger.Errorw("history fetch failed", "viewer", viewer, "other", other, "error", err)
		writeJSON(w, []*entity.Message{})
		return
	}
	writeJSON(w, messages)
}

func (h *MessageHandler) Unread(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSON(w, map[string]int64{})
		return
	}
	counts, err := h.messageService.UnreadCounts(username)
	if err != nil {
		h.logger.Errorw("unread aggregation failed", "username", username, "error", err)
		writeJSON(w, map[string]int64{})
		return
	}
	writeJSON(w, counts)
}

func (h *MessageHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	var request struct {
		User1 string `json:"user1"`
		User2 string `json:"user2"`
	}
	if err := decodeJSON(r, &request); err != nil || request.User1 == "" || request.User2 == "" {
		writeFail(w, "参数缺失")
		return
	}
	if err := h.messageService.ClearHistory(request.User1, request.User2); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}
