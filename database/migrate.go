package database

import (
	"encoding/json"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the schema and seeds missing settings keys.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Setting{},
		&models.DBChange{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Info("AutoMigrate completed")

	for key, value := range DefaultSettings() {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		// Nilai yang sudah ada tidak ditimpa
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Setting{Key: key, Value: raw}).Error; err != nil {
			return err
		}
	}
	return nil
}

func DefaultSettings() map[string]interface{} {
	return map[string]interface{}{
		models.SettingBusinessInfo: models.BusinessInfo{
			BusinessName: "Restaurant",
			IsOpen:       true,
		},
		models.SettingBusinessHours: models.BusinessHours{
			"monday":    {Open: "12:00", Close: "23:00"},
			"tuesday":   {Open: "12:00", Close: "23:00"},
			"wednesday": {Open: "12:00", Close: "23:00"},
			"thursday":  {Open: "12:00", Close: "23:00"},
			"friday":    {Open: "12:00", Close: "23:30"},
			"saturday":  {Open: "12:00", Close: "23:30"},
			"sunday":    {Closed: true},
		},
		models.SettingDeliverySettings: models.DeliverySettings{
			DeliveryFee:    2.50,
			MinOrderAmount: 0,
		},
		models.SettingFeatureFlags: models.FeatureFlags{
			"delivery": true,
			"pickup":   true,
		},
	}
}
