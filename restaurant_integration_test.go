package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/kds"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/router"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/testutil"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama:
// 1. Guest checkout -> order pending
// 2. Journal -> notifikasi "New order"
// 3. Dapur: start -> ready, notifikasi "Order ready"
// 4. Order detail: delivered
// 5. Report hari ini berisi order tersebut
func TestEndToEndIntegration(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	paella := testutil.SeedProduct(t, store, "Paella", "12.00")

	auth := services.NewAuthService(store, utils.NewTokenSigner("integration", time.Hour), utils.NewTokenBlacklist())
	settings := services.NewSettingsService(store)
	lifecycle := services.NewOrderLifecycle(store)
	feed := services.NewLocalFeed()
	monitor := services.NewChangeMonitor(store, feed, time.Second)
	notifications := services.NewNotificationFeed(50)
	feed.Subscribe(notifications.HandleChange)

	r := router.SetupRouter(router.Deps{
		Auth:          auth,
		Catalog:       services.NewCatalog(store),
		Checkout:      services.NewCheckout(store, settings),
		Board:         services.NewOrderBoard(store),
		Lifecycle:     lifecycle,
		Kitchen:       services.NewKitchenDisplay(store, lifecycle, services.KitchenOptions{PollInterval: time.Minute}),
		Notifications: notifications,
		Admin:         services.NewAdminService(store, auth, time.UTC),
		Reports:       services.NewReportService(store, services.LogMailer{}, nil, time.UTC),
		Settings:      settings,
		Hub:           kds.NewHub(),
	})

	profile, err := auth.SignUp(ctx, services.SignUpRequest{Email: "staff@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, store.UpdateProfileRole(ctx, profile.ID, models.RoleStaff))
	token := loginTest(t, r)

	// 1. Checkout
	var placed struct {
		OrderID string `json:"order_id"`
	}
	call(t, r, http.MethodPost, "/checkout", "", map[string]interface{}{
		"items":      []map[string]interface{}{{"product_id": paella.ID, "quantity": 2}},
		"first_name": "Ana",
		"last_name":  "García",
		"phone":      "600111222",
	}, http.StatusCreated, &placed)
	require.NotEmpty(t, placed.OrderID)

	// 2. Notifikasi order baru
	assert.Equal(t, 1, monitor.CheckChanges(ctx))
	require.Len(t, notifications.List(), 1)
	assert.Equal(t, models.NotificationNewOrder, notifications.List()[0].Type)

	// 3. Dapur
	call(t, r, http.MethodPost, "/admin/kitchen/"+placed.OrderID+"/start", token, nil, http.StatusOK, nil)
	call(t, r, http.MethodPost, "/admin/kitchen/"+placed.OrderID+"/ready", token, nil, http.StatusOK, nil)
	assert.Equal(t, 2, monitor.CheckChanges(ctx))
	assert.Equal(t, models.NotificationOrderReady, notifications.List()[0].Type)
	assert.Equal(t, 2, notifications.UnreadCount())

	// 4. Delivered
	var order models.Order
	call(t, r, http.MethodPatch, "/admin/orders/"+placed.OrderID+"/status", token,
		map[string]string{"status": "delivered"}, http.StatusOK, &order)
	assert.Equal(t, models.StatusDelivered, order.Status)

	var lanes services.Lanes
	call(t, r, http.MethodGet, "/admin/orders", token, nil, http.StatusOK, &lanes)
	assert.Equal(t, 1, lanes.Completed.Count)

	// 5. Report
	var report services.ReportData
	call(t, r, http.MethodGet, "/admin/reports?range=today", token, nil, http.StatusOK, &report)
	assert.Equal(t, 1, report.TotalOrders)
	assert.Equal(t, "24", report.TotalRevenue.String())
}

func loginTest(t *testing.T, r *gin.Engine) string {
	var login struct {
		Token string `json:"token"`
	}
	call(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "staff@example.com",
		"password": "secret123",
	}, http.StatusOK, &login)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body interface{}, wantCode int, data interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, wantCode, w.Code, w.Body.String())

	if data != nil {
		var resp utils.JSONResponse
		resp.Data = data
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
}
