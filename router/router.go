package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/controllers"
	"github.com/yeremiapane/restaurant-ordering/kds"
	"github.com/yeremiapane/restaurant-ordering/middlewares"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/services"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Auth          *services.AuthService
	Catalog       *services.Catalog
	Checkout      *services.Checkout
	Board         *services.OrderBoard
	Lifecycle     *services.OrderLifecycle
	Kitchen       *services.KitchenDisplay
	Notifications *services.NotificationFeed
	Admin         *services.AdminService
	Reports       *services.ReportService
	Settings      *services.SettingsService
	Hub           *kds.Hub

	CORSOrigin     string
	TrustedProxies []string
	// Health reports store reachability for /ping.
	Health func(ctx context.Context) error
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		r.SetTrustedProxies(nil)
	}

	origin := d.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(origin))
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	authCtrl := controllers.NewAuthController(d.Auth)
	menuCtrl := controllers.NewMenuController(d.Catalog)
	categoryCtrl := controllers.NewMenuCategoryController(d.Catalog)
	checkoutCtrl := controllers.NewCheckoutController(d.Checkout)
	orderCtrl := controllers.NewOrderController(d.Board, d.Lifecycle)
	kdsCtrl := controllers.NewKDSController(d.Kitchen, d.Hub, origin)
	notificationCtrl := controllers.NewNotificationController(d.Notifications)
	adminCtrl := controllers.NewAdminController(d.Admin)
	reportCtrl := controllers.NewReportController(d.Reports)
	settingsCtrl := controllers.NewSettingsController(d.Settings)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "store unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/auth")
	public.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		public.POST("/register", authCtrl.SignUp)
		public.POST("/login", authCtrl.Login)
	}

	r.GET("/categories", categoryCtrl.GetCategories)
	r.GET("/menu", menuCtrl.GetMenu)
	r.GET("/menu/:product_id", menuCtrl.GetProductByID)
	r.GET("/settings", settingsCtrl.GetAll)
	r.GET("/settings/:key", settingsCtrl.Get)

	// Checkout bisa sebagai guest maupun customer login
	r.POST("/checkout", middlewares.OptionalAuth(d.Auth), checkoutCtrl.PlaceOrder)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	account := r.Group("/auth")
	account.Use(middlewares.AuthMiddleware(d.Auth))
	{
		account.GET("/me", authCtrl.Me)
		account.POST("/logout", authCtrl.Logout)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(d.Auth), middlewares.RoleCheck(models.RoleAdmin, models.RoleStaff))

	// ORDER BOARD
	admin.GET("/orders", orderCtrl.GetLanes)
	admin.POST("/orders", orderCtrl.CreateManualOrder)
	admin.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateStatus)
	admin.PATCH("/orders/:order_id/payment", orderCtrl.UpdatePaymentStatus)

	// KITCHEN
	admin.GET("/kitchen", kdsCtrl.GetTickets)
	admin.POST("/kitchen/:order_id/start", kdsCtrl.StartCooking)
	admin.POST("/kitchen/:order_id/ready", kdsCtrl.MarkReady)

	// NOTIFICATIONS
	admin.GET("/notifications", notificationCtrl.GetNotifications)
	admin.POST("/notifications/read-all", notificationCtrl.MarkAllAsRead)
	admin.POST("/notifications/:id/read", notificationCtrl.MarkAsRead)
	admin.DELETE("/notifications", notificationCtrl.ClearAll)
	admin.DELETE("/notifications/:id", notificationCtrl.Clear)

	// DASHBOARD, CUSTOMERS, EMPLOYEES
	admin.GET("/dashboard", adminCtrl.GetDashboard)
	admin.GET("/customers", adminCtrl.GetCustomers)
	admin.GET("/employees", adminCtrl.GetEmployees)
	admin.PUT("/employees/role", adminCtrl.SetRole)

	// MENU (admin)
	admin.GET("/products", menuCtrl.AdminListProducts)
	admin.POST("/products", menuCtrl.CreateProduct)
	admin.PATCH("/products/:product_id", menuCtrl.UpdateProduct)
	admin.DELETE("/products/:product_id", menuCtrl.DeleteProduct)
	admin.POST("/products/:product_id/restore", menuCtrl.RestoreProduct)
	admin.GET("/categories", categoryCtrl.AdminListCategories)
	admin.POST("/categories", categoryCtrl.CreateCategory)
	admin.PATCH("/categories/:category_id", categoryCtrl.UpdateCategory)
	admin.DELETE("/categories/:category_id", categoryCtrl.DeleteCategory)

	// REPORTS
	admin.GET("/reports", reportCtrl.GetReport)
	admin.GET("/reports/export", reportCtrl.ExportCSV)
	admin.GET("/reports/export-pdf", reportCtrl.ExportPDF)
	admin.POST("/reports/email", reportCtrl.EmailReport)
	admin.POST("/reports/archive", reportCtrl.ArchiveReport)

	// SETTINGS
	admin.PUT("/settings/:key", settingsCtrl.Update)

	// WebSocket, token lewat query ?token=
	r.GET("/ws/kds", middlewares.AuthMiddleware(d.Auth), kdsCtrl.KDSHandler)

	return r
}
