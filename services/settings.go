package services

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
)

type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]models.Setting, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

// SettingsService reads and writes the independent settings documents.
type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

func knownSetting(key string) bool {
	for _, k := range models.SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// GetAll returns every stored key with its raw JSON value.
func (s *SettingsService) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(rows))
	for _, r := range rows {
		out[r.Key] = json.RawMessage(r.Value)
	}
	return out, nil
}

func (s *SettingsService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if !knownSetting(key) {
		return nil, ErrNotFound
	}
	row, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(row.Value), nil
}

// Update replaces one key after checking the value decodes into its shape.
func (s *SettingsService) Update(ctx context.Context, sess *Session, key string, value json.RawMessage) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if !knownSetting(key) {
		return invalid("key", "unknown setting "+key)
	}
	if err := validateSetting(key, value); err != nil {
		return invalid("value", err.Error())
	}
	return s.store.PutSetting(ctx, key, value)
}

func validateSetting(key string, value json.RawMessage) error {
	var target interface{}
	switch key {
	case models.SettingBusinessInfo:
		target = &models.BusinessInfo{}
	case models.SettingBusinessHours:
		target = &models.BusinessHours{}
	case models.SettingDeliverySettings:
		var ds models.DeliverySettings
		if err := json.Unmarshal(value, &ds); err != nil {
			return err
		}
		if ds.DeliveryFee < 0 || ds.MinOrderAmount < 0 {
			return errors.New("amounts must not be negative")
		}
		return nil
	case models.SettingFeatureFlags:
		target = &models.FeatureFlags{}
	}
	return json.Unmarshal(value, target)
}

// DefaultDeliveryFee applies when delivery settings are missing.
const DefaultDeliveryFee = 2.50

func (s *SettingsService) Delivery(ctx context.Context) (models.DeliverySettings, error) {
	ds := models.DeliverySettings{DeliveryFee: DefaultDeliveryFee}
	row, err := s.store.GetSetting(ctx, models.SettingDeliverySettings)
	if errors.Is(err, database.ErrNotFound) {
		return ds, nil
	}
	if err != nil {
		return ds, err
	}
	if err := json.Unmarshal(row.Value, &ds); err != nil {
		return models.DeliverySettings{DeliveryFee: DefaultDeliveryFee}, nil
	}
	return ds, nil
}

func (s *SettingsService) BusinessInfo(ctx context.Context) (models.BusinessInfo, error) {
	var info models.BusinessInfo
	row, err := s.store.GetSetting(ctx, models.SettingBusinessInfo)
	if errors.Is(err, database.ErrNotFound) {
		return info, nil
	}
	if err != nil {
		return info, err
	}
	err = json.Unmarshal(row.Value, &info)
	return info, err
}
