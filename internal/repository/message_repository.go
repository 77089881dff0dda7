package repository

import (
	"geochat/internal/entity"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(messages ...*entity.Message) error

	// Conversation returns the viewer-owned rows between the two users in
	// both directions, oldest first.
	Conversation(owner, other string) ([]*entity.Message, error)
	// MarkConversationRead flips the viewer-owned unread rows received from
	// the given sender. Returns how many rows were newly read.
	MarkConversationRead(owner, from string) (int64, error)
	// UnreadCountsBySender aggregates the unread rows addressed to the user,
	// keyed by sender. Computed fresh on every call.
	UnreadCountsBySender(username string) (map[string]int64, error)
	// DeleteConversation removes only the owner's chat rows for the pair.
	DeleteConversation(owner, other string) error

	ListBySenderAndType(sender, msgType string) ([]*entity.Message, error)
	ListByRecipientAndType(recipient, msgType string) ([]*entity.Message, error)
	DeleteByPairAndType(sender, recipient, msgType string) error
	MarkReadByRecipientAndType(recipient, msgType string) error
}

type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(messages ...*entity.Message) error {
	return repo.db.Create(messages).Error
}

func (repo *SQLiteMessageRepository) Conversation(owner, other string) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.
		Where("owner = ? AND ((sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?))",
			owner, owner, other, other, owner).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) MarkConversationRead(owner, from string) (int64, error) {
	result := repo.db.Model(&entity.Message{}).
		Where("owner = ? AND recipient = ? AND sender = ? AND read = ?", owner, owner, from, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (repo *SQLiteMessageRepository) UnreadCountsBySender(username string) (map[string]int64, error) {
	var rows []struct {
		Sender string
		Count  int64
	}
	err := repo.db.Model(&entity.Message{}).
		Select("sender, COUNT(*) AS count").
		Where("owner = ? AND recipient = ? AND read = ?", username, username, false).
		Group("sender").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Sender] = row.Count
	}
	return counts, nil
}

func (repo *SQLiteMessageRepository) DeleteConversation(owner, other string) error {
	return repo.db.
		Where("owner = ? AND type = ? AND ((sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?))",
			owner, entity.MessageTypeChat, owner, other, other, owner).
		Delete(&entity.Message{}).Error
}

func (repo *SQLiteMessageRepository) ListBySenderAndType(sender, msgType string) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.Where("sender = ? AND type = ?", sender, msgType).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) ListByRecipientAndType(recipient, msgType string) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.Where("recipient = ? AND type = ?", recipient, msgType).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) DeleteByPairAndType(sender, recipient, msgType string) error {
	return repo.db.Where("sender = ? AND recipient = ? AND type = ?", sender, recipient, msgType).
		Delete(&entity.Message{}).Error
}

func (repo *SQLiteMessageRepository) MarkReadByRecipientAndType(recipient, msgType string) error {
	return repo.db.Model(&entity.Message{}).
		Where("recipient = ? AND type = ? AND read = ?", recipient, msgType, false).
		Update("read", true).Error
}
