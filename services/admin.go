package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
)

type AdminStore interface {
	ListOrders(ctx context.Context, f database.OrderFilter) ([]models.Order, error)
	CountOrders(ctx context.Context, statuses []models.OrderStatus) (int64, error)
	ListProfilesByRole(ctx context.Context, roles ...models.Role) ([]models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateProfileRole(ctx context.Context, id string, role models.Role) error
}

// SessionInvalidator drops cached sessions after a role change.
type SessionInvalidator interface {
	Invalidate(userID string)
}

// AdminService backs the dashboard, customers and employees pages.
type AdminService struct {
	store    AdminStore
	sessions SessionInvalidator
	loc      *time.Location
	now      func() time.Time
}

func NewAdminService(store AdminStore, sessions SessionInvalidator, loc *time.Location) *AdminService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminService{store: store, sessions: sessions, loc: loc, now: time.Now}
}

func (a *AdminService) Dashboard(ctx context.Context, sess *Session) (DashboardData, error) {
	if err := requireBackOffice(sess); err != nil {
		return DashboardData{}, err
	}
	now := a.now().In(a.loc)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)

	today, err := a.store.ListOrders(ctx, database.OrderFilter{From: startOfDay})
	if err != nil {
		return DashboardData{}, err
	}
	active, err := a.store.CountOrders(ctx, activeStatuses())
	if err != nil {
		return DashboardData{}, err
	}
	recent, err := a.store.ListOrders(ctx, database.OrderFilter{NewestFirst: true, Limit: 5})
	if err != nil {
		return DashboardData{}, err
	}
	return BuildDashboard(today, int(active), recent), nil
}

func (a *AdminService) Customers(ctx context.Context, sess *Session, search string) ([]CustomerSummary, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	orders, err := a.store.ListOrders(ctx, database.OrderFilter{NewestFirst: true})
	if err != nil {
		return nil, err
	}
	return BuildCustomerRollup(orders, search), nil
}

func (a *AdminService) Employees(ctx context.Context, sess *Session) ([]models.Profile, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	return a.store.ListProfilesByRole(ctx, models.RoleAdmin, models.RoleStaff)
}

// SetRole grants or revokes back-office access. Admins cannot demote themselves.
func (a *AdminService) SetRole(ctx context.Context, sess *Session, email string, role models.Role) (*models.Profile, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return nil, invalid("role", err.Error())
	}
	profile, err := a.store.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile.ID == sess.UserID && role != models.RoleAdmin {
		return nil, invalid("role", "you cannot remove your own admin role")
	}
	if err := a.store.UpdateProfileRole(ctx, profile.ID, role); err != nil {
		return nil, err
	}
	if a.sessions != nil {
		a.sessions.Invalidate(profile.ID)
	}
	profile.Role = role
	return profile, nil
}
