package repository

import (
	"geochat/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LocationRepository interface {
	// Upsert overwrites the user's previous position. At most one row per
	// username ever exists; there is no position history.
	Upsert(loc *entity.Location) error
	ListAll() ([]*entity.Location, error)
}

type SQLiteLocationRepository struct {
	db *gorm.DB
}

func NewSQLiteLocationRepository(db *gorm.DB) LocationRepository {
	return &SQLiteLocationRepository{db}
}

func (repo *SQLiteLocationRepository) Upsert(loc *entity.Location) error {
	return repo.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"lng", "lat", "avatar", "updated_at"}),
	}).Create(loc).Error
}

func (repo *SQLiteLocationRepository) ListAll() ([]*entity.Location, error) {
	var locations []*entity.Location
	err := repo.db.Find(&locations).Error
	return locations, err
}
