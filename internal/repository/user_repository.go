package repository

import (
	"geochat/internal/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error

	GetByUsername(username string) (*entity.User, error)
	GetByUsernames(usernames []string) ([]*entity.User, error)

	UpdateAvatar(username, avatar, thumb string) error
	UpdateGameTags(username string, tags []string) error
}

type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUserRepository(db *gorm.DB) UserRepository {
	return &SQLiteUserRepository{db}
}

func (repo *SQLiteUserRepository) Create(user *entity.User) error {
	return repo.db.Create(user).Error
}

func (repo *SQLiteUserRepository) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	if err := repo.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) GetByUsernames(usernames []string) ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.Where("username IN ?", usernames).Find(&users).Error
	return users, err
}

func (repo *SQLiteUserRepository) UpdateAvatar(username, avatar, thumb string) error {
	return repo.db.Model(&entity.User{}).Where("username = ?", username).
		Updates(map[string]any{"avatar": avatar, "avatar_thumb": thumb}).Error
}

func (repo *SQLiteUserRepository) UpdateGameTags(username string, tags []string) error {
	return repo.db.Model(&entity.User{}).Where("username = ?", username).
		Update("game_tags", tags).Error
}
