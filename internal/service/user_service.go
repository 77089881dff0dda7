package service

import (
	"encoding/base64"
	"strings"

	"geochat/internal/repository"

	"go.uber.org/zap"
)

const maxGameTags = 5

// BlobStore is the external blob-store/thumbnailer collaborator: store image
// bytes, get back stable URLs.
type BlobStore interface {
	StoreImage(data []byte, contentType string) (url, thumbURL string, err error)
}

// PublicInfo is the subset of a user shared with other users.
type PublicInfo struct {
	Username string   `json:"username"`
	Avatar   string   `json:"avatar"`
	GameTags []string `json:"gameTags"`
}

type UserService interface {
	// SetAvatar accepts either an inline data URL, which is uploaded through
	// the blob store, or an already-resolved URL stored as-is. Returns the
	// stored avatar and thumbnail URLs.
	SetAvatar(username, avatar string) (string, string, error)
	// SetGameTags replaces the stored tags, truncated to at most five.
	SetGameTags(username string, tags []string) error
	// ListFriends is empty for unknown users or users with no friends.
	ListFriends(username string) ([]string, error)
	AddMutualFriend(a, b string) error
	RemoveMutualFriend(a, b string) error
	// BatchPublicInfo returns only the users that exist, each at most once.
	BatchPublicInfo(usernames []string) ([]PublicInfo, error)
}

type localUserService struct {
	users       repository.UserRepository
	friendships repository.FriendshipRepository
	blobs       BlobStore
	logger      *zap.SugaredLogger
}

func NewUserService(users repository.UserRepository, friendships repository.FriendshipRepository, blobs BlobStore, logger *zap.SugaredLogger) UserService {
	return &localUserService{
		users:       users,
		friendships: friendships,
		blobs:       blobs,
		logger:      logger,
	}
}

func (s *localUserService) SetAvatar(username, avatar string) (string, string, error) {
	if username == "" || avatar == "" {
		return "", "", ErrInvalidInput
	}

	url, thumb := avatar, ""
	if strings.HasPrefix(avatar, "data:") {
		data, contentType, err := decodeDataURL(avatar)
		if err != nil {
			return "", "", ErrInvalidRequest
		}
		url, thumb, err = s.blobs.StoreImage(data, contentType)
		if err != nil {
			s.logger.Errorw("avatar upload failed", "username", username, "error", err)
			return "", "", ErrUploadFailed
		}
	}

	if err := s.users.UpdateAvatar(username, url, thumb); err != nil {
		return "", "", err
	}
	return url, thumb, nil
}

func (s *localUserService) SetGameTags(username string, tags []string) error {
	if username == "" {
		return ErrInvalidInput
	}
	if len(tags) > maxGameTags {
		tags = tags[:maxGameTags]
	}
	return s.users.UpdateGameTags(username, tags)
}

func (s *localUserService) ListFriends(username string) ([]string, error) {
	if username == "" {
		return []string{}, nil
	}
	friends, err := s.friendships.ListFriends(username)
	if err != nil {
		return nil, err
	}
	if friends == nil {
		friends = []string{}
	}
	return friends, nil
}

func (s *localUserService) AddMutualFriend(a, b string) error {
	if a == "" || b == "" || a == b {
		return ErrInvalidRequest
	}
	return s.friendships.AddPair(a, b)
}

func (s *localUserService) RemoveMutualFriend(a, b string) error {
	if a == "" || b == "" {
		return ErrInvalidRequest
	}
	return s.friendships.RemovePair(a, b)
}

func (s *localUserService) BatchPublicInfo(usernames []string) ([]PublicInfo, error) {
	if len(usernames) == 0 {
		return []PublicInfo{}, nil
	}
	users, err := s.users.GetByUsernames(usernames)
	if err != nil {
		return nil, err
	}
	infos := make([]PublicInfo, 0, len(users))
	for _, u := range users {
		avatar := u.AvatarThumb
		if avatar == "" {
			avatar = u.Avatar
		}
		tags := u.GameTags
		if tags == nil {
			tags = []string{}
		}
		infos = append(infos, PublicInfo{Username: u.Username, Avatar: avatar, GameTags: tags})
	}
	return infos, nil
}

// decodeDataURL splits a "data:<type>;base64,<payload>" URL into its bytes
// and content type.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	rest := strings.TrimPrefix(dataURL, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", ErrInvalidRequest
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
