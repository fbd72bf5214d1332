package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting keys. Each value is an independent JSON document.
const (
	SettingBusinessInfo     = "business_info"
	SettingBusinessHours    = "business_hours"
	SettingDeliverySettings = "delivery_settings"
	SettingFeatureFlags     = "feature_flags"
)

var SettingKeys = []string{
	SettingBusinessInfo,
	SettingBusinessHours,
	SettingDeliverySettings,
	SettingFeatureFlags,
}

type Setting struct {
	Key       string         `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

type BusinessInfo struct {
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	IsOpen       bool   `json:"is_open"`
}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// BusinessHours is keyed by lower-case weekday name.
type BusinessHours map[string]DayHours

type DeliverySettings struct {
	DeliveryFee           float64  `json:"delivery_fee"`
	MinOrderAmount        float64  `json:"min_order_amount"`
	FreeDeliveryThreshold *float64 `json:"free_delivery_threshold,omitempty"`
}

type FeatureFlags map[string]bool

func (Setting) TableName() string { return "settings" }
