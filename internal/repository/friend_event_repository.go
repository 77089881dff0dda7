package repository

import (
	"geochat/internal/entity"

	"gorm.io/gorm"
)

type FriendEventRepository interface {
	Create(event *entity.FriendListEvent) error
	CountUnread(username string) (int64, error)
	// AckAll flips the user's events read and deletes them, so a subsequent
	// count is zero and rows do not pile up.
	AckAll(username string) error
}

type SQLiteFriendEventRepository struct {
	db *gorm.DB
}

func NewSQLiteFriendEventRepository(db *gorm.DB) FriendEventRepository {
	return &SQLiteFriendEventRepository{db}
}

func (repo *SQLiteFriendEventRepository) Create(event *entity.FriendListEvent) error {
	return repo.db.Create(event).Error
}

func (repo *SQLiteFriendEventRepository) CountUnread(username string) (int64, error) {
	var count int64
	err := repo.db.Model(&entity.FriendListEvent{}).
		Where("username = ? AND read = ?", username, false).
		Count(&count).Error
	return count, err
}

func (repo *SQLiteFriendEventRepository) AckAll(username string) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.FriendListEvent{}).
			Where("username = ? AND read = ?", username, false).
			Update("read", true).Error; err != nil {
			return err
		}
		return tx.Where("username = ?", username).Delete(&entity.FriendListEvent{}).Error
	})
}
