package database

import (
	"context"

	"github.com/yeremiapane/restaurant-ordering/models"
	"gorm.io/gorm"
)

// PendingChanges returns up to limit unprocessed journal rows, oldest first.
// Rows stay unprocessed until AckChanges marks them.
func (s *Store) PendingChanges(ctx context.Context, limit int) ([]models.DBChange, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var changes []models.DBChange
	err := db.Where("processed = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&changes).Error
	if err != nil {
		return nil, WrapErr("pending changes", err)
	}
	return changes, nil
}

// AckChanges marks the given journal rows processed.
func (s *Store) AckChanges(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db, cancel := s.conn(ctx)
	defer cancel()

	err := db.Model(&models.DBChange{}).Where("id IN ?", ids).Update("processed", true).Error
	return WrapErr("ack changes", err)
}

// ClaimChanges returns up to limit unprocessed journal rows and marks them
// processed in the same transaction. Used where nobody consumes the events.
func (s *Store) ClaimChanges(ctx context.Context, limit int) ([]models.DBChange, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var changes []models.DBChange
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("processed = ?", false).
			Order("id ASC").
			Limit(limit).
			Find(&changes).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		ids := make([]uint, len(changes))
		for i, c := range changes {
			ids[i] = c.ID
		}
		return tx.Model(&models.DBChange{}).Where("id IN ?", ids).Update("processed", true).Error
	})
	if err != nil {
		return nil, WrapErr("claim changes", err)
	}
	return changes, nil
}

// PurgeProcessedChanges deletes processed journal rows older than the newest keep rows.
func (s *Store) PurgeProcessedChanges(ctx context.Context, keep int) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var cutoff models.DBChange
	err := db.Where("processed = ?", true).Order("id DESC").Offset(keep).Limit(1).Find(&cutoff).Error
	if err != nil {
		return 0, WrapErr("purge changes", err)
	}
	if cutoff.ID == 0 {
		return 0, nil
	}
	res := db.Where("processed = ? AND id <= ?", true, cutoff.ID).Delete(&models.DBChange{})
	return res.RowsAffected, WrapErr("purge changes", res.Error)
}
