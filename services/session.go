package services

import (
	"time"

	"github.com/yeremiapane/restaurant-ordering/models"
)

// Session is resolved once per token and passed explicitly to services.
type Session struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s *Session) IsBackOffice() bool {
	return s != nil && s.Role.IsBackOffice()
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

func requireBackOffice(s *Session) error {
	if s == nil {
		return ErrUnauthenticated
	}
	if !s.IsBackOffice() {
		return ErrForbidden
	}
	return nil
}

func requireAdmin(s *Session) error {
	if s == nil {
		return ErrUnauthenticated
	}
	if !s.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
