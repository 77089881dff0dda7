package service

import (
	"time"

	"geochat/internal/entity"
	"geochat/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageService interface {
	// Send persists the two owner-scoped copies of the message and pushes the
	// recipient's copy plus a fresh unread map to the recipient's channel.
	// Returns the recipient-owned row.
	Send(from, to, content, msgType string) (*entity.Message, error)
	// History returns the viewer's copies of the conversation, oldest first,
	// and marks the viewer's unread rows from the other party as read.
	// Calling it twice returns the same sequence both times.
	History(viewer, other string) ([]*entity.Message, error)
	// UnreadCounts maps sender username to unread count for the given user.
	UnreadCounts(username string) (map[string]int64, error)
	// ClearHistory deletes only the viewer's copies; the other participant's
	// view is untouched.
	ClearHistory(viewer, other string) error
}

type localMessageService struct {
	messages repository.MessageRepository
	notifier Notifier
	logger   *zap.SugaredLogger
}

func NewMessageService(messages repository.MessageRepository, notifier Notifier, logger *zap.SugaredLogger) MessageService {
	return &localMessageService{
		messages: messages,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *localMessageService) Send(from, to, content, msgType string) (*entity.Message, error) {
	if from == "" || to == "" || content == "" {
		return nil, ErrInvalidInput
	}
	if msgType == "" {
		msgType = entity.MessageTypeChat
	}
	// Only chat messages are owner-duplicated; request rows are stored singly
	// by the friend lifecycle and never come through here.
	if msgType != entity.MessageTypeChat {
		return nil, ErrInvalidRequest
	}

	pairID := uuid.New().String()
	now := time.Now()

	// The sender's copy is born read; the recipient's copy carries the unread
	// flag and is the one delivered over the channel.
	senderCopy := &entity.Message{
		ID:        uuid.New().String(),
		PairID:    pairID,
		Owner:     from,
		Sender:    from,
		Recipient: to,
		Content:   content,
		Type:      msgType,
		Read:      true,
		CreatedAt: now,
	}
	recipientCopy := &entity.Message{
		ID:        uuid.New().String(),
		PairID:    pairID,
		Owner:     to,
		Sender:    from,
		Recipient: to,
		Content:   content,
		Type:      msgType,
		Read:      false,
		CreatedAt: now,
	}
	if err := s.messages.Create(senderCopy, recipientCopy); err != nil {
		s.logger.Errorw("message insert failed", "from", from, "to", to, "error", err)
		return nil, err
	}

	s.notifier.Push(to, EventChatMessage, recipientCopy)
	s.pushUnread(to)
	return recipientCopy, nil
}

func (s *localMessageService) History(viewer, other string) ([]*entity.Message, error) {
	if viewer == "" || other == "" {
		return []*entity.Message{}, nil
	}
	messages, err := s.messages.Conversation(viewer, other)
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.MarkConversationRead(viewer, other); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	return messages, nil
}

func (s *localMessageService) UnreadCounts(username string) (map[string]int64, error) {
	if username == "" {
		return map[string]int64{}, nil
	}
	return s.messages.UnreadCountsBySender(username)
}

func (s *localMessageService) ClearHistory(viewer, other string) error {
	if viewer == "" || other == "" {
		return ErrInvalidInput
	}
	return s.messages.DeleteConversation(viewer, other)
}

func (s *localMessageService) pushUnread(username string) {
	counts, err := s.messages.UnreadCountsBySender(username)
	if err != nil {
		s.logger.Warnw("unread aggregation failed", "username", username, "error", err)
		return
	}
	s.notifier.Push(username, EventUnreadUpdated, counts)
}
