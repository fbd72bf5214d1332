package database

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-ordering/models"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

func (s *Store) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	db, cancel := s.conn(ctx)
	defer cancel()

	var setting models.Setting
	if err := db.Where(&models.Setting{Key: key}).First(&setting).Error; err != nil {
		return nil, WrapErr("get setting", err)
	}
	return &setting, nil
}

func (s *Store) ListSettings(ctx context.Context) ([]models.Setting, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var settings []models.Setting
	if err := db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error; err != nil {
		return nil, WrapErr("list settings", err)
	}
	return settings, nil
}

// PutSetting upserts one key. Keys are independent; there is no multi-key write.
func (s *Store) PutSetting(ctx context.Context, key string, value []byte) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	setting := models.Setting{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	return WrapErr("put setting", err)
}
