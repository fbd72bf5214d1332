package models

import (
	"time"

	"gorm.io/datatypes"
)

// Change journal actions.
const (
	ChangeOrderCreated       = "order.created"
	ChangeOrderStatusChanged = "order.status_changed"
)

// DBChange is the change-feed journal. Rows are written in the same
// transaction as the order write they describe.
type DBChange struct {
	ID         uint           `gorm:"primaryKey"`
	Entity     string         `gorm:"column:table_name;type:varchar(50);not null;index:idx_table_action"`
	RecordID   string         `gorm:"type:varchar(36);not null"`
	ActionType string         `gorm:"type:varchar(40);not null;index:idx_table_action"`
	Payload    datatypes.JSON `json:"payload"`
	ChangedAt  time.Time      `gorm:"not null"`
	Processed  bool           `gorm:"default:false;index:idx_processed"`
}

func (DBChange) TableName() string { return "db_changes" }
