package database

import (
	"context"
	"strings"

	"github.com/yeremiapane/restaurant-ordering/models"
)

func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var p models.Profile
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, WrapErr("get profile", err)
	}
	return &p, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var p models.Profile
	if err := db.First(&p, "email = ?", lower(email)).Error; err != nil {
		return nil, WrapErr("get profile by email", err)
	}
	return &p, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	p.Email = lower(p.Email)
	return WrapErr("create profile", db.Create(p).Error)
}

func (s *Store) ListProfilesByRole(ctx context.Context, roles ...models.Role) ([]models.Profile, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var profiles []models.Profile
	if err := db.Where("role IN ?", roles).Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, WrapErr("list profiles", err)
	}
	return profiles, nil
}

func (s *Store) UpdateProfileRole(ctx context.Context, id string, role models.Role) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.Profile{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return WrapErr("update profile role", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
