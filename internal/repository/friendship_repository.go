package repository

import (
	"time"

	"geochat/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendshipRepository interface {
	// AddPair inserts both directions of the relation. Each insert is an
	// addToSet: a row that already exists is left alone, so a retry after a
	// crash between the two inserts self-heals.
	AddPair(a, b string) error
	RemovePair(a, b string) error
	ListFriends(username string) ([]string, error)
}

type SQLiteFriendshipRepository struct {
	db *gorm.DB
}

func NewSQLiteFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &SQLiteFriendshipRepository{db}
}

func (repo *SQLiteFriendshipRepository) AddPair(a, b string) error {
	now := time.Now()
	rows := []entity.Friendship{
		{Username: a, Friend: b, CreatedAt: now},
		{Username: b, Friend: a, CreatedAt: now},
	}
	for i := range rows {
		if err := repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (repo *SQLiteFriendshipRepository) RemovePair(a, b string) error {
	return repo.db.
		Where("(username = ? AND friend = ?) OR (username = ? AND friend = ?)", a, b, b, a).
		Delete(&entity.Friendship{}).Error
}

func (repo *SQLiteFriendshipRepository) ListFriends(username string) ([]string, error) {
	var friends []string
	err := repo.db.Model(&entity.Friendship{}).
		Where("username = ?", username).
		Order("created_at ASC").
		Pluck("friend", &friends).Error
	return friends, err
}
