package service

import (
	"time"

	"geochat/internal/entity"
	"geochat/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IncomingRequest is a received friend request joined with the requester's
// current avatar.
type IncomingRequest struct {
	From   string `json:"from"`
	Avatar string `json:"avatar"`
}

type FriendService interface {
	// SendRequest inserts a pending request and clears any stale rejection
	// bookkeeping for the pair so the new request is not blocked by it.
	// Duplicate pending requests are possible; Resolve deletes them all.
	SendRequest(from, to string) error
	ListOutgoingPending(username string) ([]string, error)
	ListIncomingPending(username string) ([]IncomingRequest, error)
	// ListRejected reads the legacy rejection markers. The current reject
	// path writes none, so this is typically empty.
	ListRejected(username string) ([]string, error)
	// Resolve accepts or rejects a pending request from the given user. On
	// accept both friend lists gain the other party and both get a durable
	// friend-list change; either way every pending row for the pair is
	// deleted and both parties are told their pending lists changed.
	Resolve(username, from string, accept bool) error
	RemoveFriend(a, b string) error

	// MarkIncomingRequestsRead clears the request badge for a user.
	MarkIncomingRequestsRead(username string) error
	UnreadFriendListChangeCount(username string) (int64, error)
	MarkFriendListChangesRead(username string) error
}

type localFriendService struct {
	messages repository.MessageRepository
	events   repository.FriendEventRepository
	users    repository.UserRepository
	userSvc  UserService
	notifier Notifier
	logger   *zap.SugaredLogger
}

func NewFriendService(
	messages repository.MessageRepository,
	events repository.FriendEventRepository,
	users repository.UserRepository,
	userSvc UserService,
	notifier Notifier,
	logger *zap.SugaredLogger,
) FriendService {
	return &localFriendService{
		messages: messages,
		events:   events,
		users:    users,
		userSvc:  userSvc,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *localFriendService) SendRequest(from, to string) error {
	if from == "" || to == "" || from == to {
		return ErrInvalidRequest
	}

	request := &entity.Message{
		ID:        uuid.New().String(),
		PairID:    uuid.New().String(),
		Owner:     to,
		Sender:    from,
		Recipient: to,
		Type:      entity.MessageTypeFriendRequest,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Create(request); err != nil {
		return err
	}
	// A rejection from an earlier round must not block this request.
	if err := s.messages.DeleteByPairAndType(from, to, entity.MessageTypeFriendRequestRejected); err != nil {
		return err
	}

	s.notifier.Push(to, EventNewFriendRequest, map[string]string{"from": from})
	s.notifier.Push(to, EventPendingRequestsUpdated, nil)
	return nil
}

func (s *localFriendService) ListOutgoingPending(username string) ([]string, error) {
	if username == "" {
		return []string{}, nil
	}
	requests, err := s.messages.ListBySenderAndType(username, entity.MessageTypeFriendRequest)
	if err != nil {
		return nil, err
	}
	recipients := make([]string, 0, len(requests))
	for _, r := range requests {
		recipients = append(recipients, r.Recipient)
	}
	return recipients, nil
}

func (s *localFriendService) ListIncomingPending(username string) ([]IncomingRequest, error) {
	if username == "" {
		return []IncomingRequest{}, nil
	}
	requests, err := s.messages.ListByRecipientAndType(username, entity.MessageTypeFriendRequest)
	if err != nil {
		return nil, err
	}

	senders := make([]string, 0, len(requests))
	for _, r := range requests {
		senders = append(senders, r.Sender)
	}
	avatars := make(map[string]string, len(senders))
	if len(senders) > 0 {
		users, err := s.users.GetByUsernames(senders)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			avatars[u.Username] = u.Avatar
		}
	}

	incoming := make([]IncomingRequest, 0, len(requests))
	for _, r := range requests {
		incoming = append(incoming, IncomingRequest{From: r.Sender, Avatar: avatars[r.Sender]})
	}
	return incoming, nil
}

func (s *localFriendService) ListRejected(username string) ([]string, error) {
	if username == "" {
		return []string{}, nil
	}
	markers, err := s.messages.ListBySenderAndType(username, entity.MessageTypeFriendRequestRejected)
	if err != nil {
		return nil, err
	}
	recipients := make([]string, 0, len(markers))
	for _, m := range markers {
		recipients = append(recipients, m.Recipient)
	}
	return recipients, nil
}

func (s *localFriendService) Resolve(username, from string, accept bool) error {
	if username == "" || from == "" {
		return ErrInvalidRequest
	}

	if accept {
		if err := s.userSvc.AddMutualFriend(username, from); err != nil {
			return err
		}
		s.recordFriendListChange(username)
		s.recordFriendListChange(from)
		s.notifier.Push(username, EventFriendListUpdated, nil)
		s.notifier.Push(from, EventFriendListUpdated, nil)
	}

	// Accept or reject, every pending row for the pair goes away. The reject
	// path writes no rejection marker.
	if err := s.messages.DeleteByPairAndType(from, username, entity.MessageTypeFriendRequest); err != nil {
		return err
	}

	if !accept {
		s.notifier.Push(from, EventFriendRequestRejected, map[string]string{"from": username})
	}
	s.notifier.Push(username, EventPendingRequestsUpdated, nil)
	s.notifier.Push(from, EventPendingRequestsUpdated, nil)
	return nil
}

func (s *localFriendService) RemoveFriend(a, b string) error {
	if a == "" || b == "" {
		return ErrInvalidRequest
	}
	if err := s.userSvc.RemoveMutualFriend(a, b); err != nil {
		return err
	}
	s.recordFriendListChange(a)
	s.recordFriendListChange(b)
	s.notifier.Push(b, EventFriendRemovedNotice, map[string]string{"from": a})
	s.notifier.Push(a, EventFriendListUpdated, nil)
	s.notifier.Push(b, EventFriendListUpdated, nil)
	return nil
}

func (s *localFriendService) MarkIncomingRequestsRead(username string) error {
	if username == "" {
		return ErrInvalidInput
	}
	return s.messages.MarkReadByRecipientAndType(username, entity.MessageTypeFriendRequest)
}

func (s *localFriendService) UnreadFriendListChangeCount(username string) (int64, error) {
	if username == "" {
		return 0, nil
	}
	return s.events.CountUnread(username)
}

func (s *localFriendService) MarkFriendListChangesRead(username string) error {
	if username == "" {
		return ErrInvalidInput
	}
	return s.events.AckAll(username)
}

// recordFriendListChange persists the durable event first, then pushes; a
// client that polls right after the push sees the row.
func (s *localFriendService) recordFriendListChange(username string) {
	err := s.events.Create(&entity.FriendListEvent{
		Username:  username,
		Type:      entity.FriendEventListChanged,
		Read:      false,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Errorw("friend-list event insert failed", "username", username, "error", err)
	}
	s.notifier.Push(username, EventFriendListChanged, nil)
}
