package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/testutil"
)

type invalidations []string

func (i *invalidations) Invalidate(userID string) { *i = append(*i, userID) }

func TestSetRole(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	boss, err := auth.SignUp(ctx, SignUpRequest{Email: "boss@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, store.UpdateProfileRole(ctx, boss.ID, models.RoleAdmin))
	cook, err := auth.SignUp(ctx, SignUpRequest{Email: "cook@example.com", Password: "secret1"})
	require.NoError(t, err)

	var dropped invalidations
	svc := NewAdminService(store, &dropped, time.UTC)
	admin := &Session{UserID: boss.ID, Role: models.RoleAdmin}

	updated, err := svc.SetRole(ctx, admin, "cook@example.com", models.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, updated.Role)
	assert.Equal(t, invalidations{cook.ID}, dropped)

	employees, err := svc.Employees(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	_, err = svc.SetRole(ctx, admin, "boss@example.com", models.RoleStaff)
	assert.True(t, IsValidation(err), "admins cannot demote themselves")

	_, err = svc.SetRole(ctx, admin, "cook@example.com", models.Role("chef"))
	assert.True(t, IsValidation(err))

	_, err = svc.SetRole(ctx, admin, "nobody@example.com", models.RoleStaff)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetRole(ctx, staff, "cook@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDashboardAndCustomers(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	p := testutil.SeedProduct(t, store, "Paella", "12.00")

	testutil.SeedOrder(t, store, models.StatusPending, now.Add(-time.Minute), &models.GuestInfo{Name: "Ana", Email: "ana@example.com"},
		testutil.Line{Product: p, Quantity: 1})
	testutil.SeedOrder(t, store, models.StatusDelivered, now.Add(-2*time.Minute), &models.GuestInfo{Name: "Ana", Email: "ANA@example.com"},
		testutil.Line{Product: p, Quantity: 2})
	testutil.SeedOrder(t, store, models.StatusDelivered, now.AddDate(0, 0, -3), &models.GuestInfo{Name: "Luis", Email: "luis@example.com"},
		testutil.Line{Product: p, Quantity: 1})

	svc := NewAdminService(store, nil, time.UTC)

	dash, err := svc.Dashboard(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.ActiveOrders)
	assert.Len(t, dash.RecentOrders, 3)

	customers, err := svc.Customers(ctx, staff, "")
	require.NoError(t, err)
	require.Len(t, customers, 2)

	filtered, err := svc.Customers(ctx, staff, "luis")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 1, filtered[0].TotalOrders)

	_, err = svc.Dashboard(ctx, &Session{UserID: "c", Role: models.RoleCustomer})
	assert.ErrorIs(t, err, ErrForbidden)
}
