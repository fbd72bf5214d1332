package cmd

import (
	"context"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

var seedOpts struct {
	orders        int
	days          int
	adminEmail    string
	adminPassword string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the store with a demo menu, an admin account and past orders",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.orders, "orders", 200, "number of demo orders")
	seedCmd.Flags().IntVar(&seedOpts.days, "days", 30, "spread orders over the last N days")
	seedCmd.Flags().StringVar(&seedOpts.adminEmail, "admin-email", "admin@restaurant.local", "admin account email")
	seedCmd.Flags().StringVar(&seedOpts.adminPassword, "admin-password", "admin123", "admin account password")
	rootCmd.AddCommand(seedCmd)
}

var demoMenu = []struct {
	category string
	items    map[string]string
}{
	{"Starters", map[string]string{"Patatas bravas": "5.50", "Croquetas": "6.00", "Pan con tomate": "3.50"}},
	{"Mains", map[string]string{"Paella": "14.00", "Burger": "11.50", "Grilled salmon": "16.00"}},
	{"Desserts", map[string]string{"Churros": "4.50", "Crema catalana": "5.00"}},
	{"Drinks", map[string]string{"Lemonade": "2.50", "Coffee": "1.80", "Water": "1.50"}},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	auth := services.NewAuthService(store, utils.NewTokenSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), utils.NewTokenBlacklist())
	if err := seedAdmin(ctx, store, auth); err != nil {
		return err
	}

	products, err := seedMenu(ctx, store)
	if err != nil {
		return err
	}

	fake := faker.New()
	now := time.Now()
	bar := progressbar.Default(int64(seedOpts.orders), "seeding orders")
	for i := 0; i < seedOpts.orders; i++ {
		order := demoOrder(fake, products, now)
		if err := store.CreateOrder(ctx, order); err != nil {
			return errors.Wrapf(err, "seed order %d", i)
		}
		bar.Add(1)
	}
	bar.Finish()

	// Demo orders must not show up as fresh notifications.
	for {
		claimed, err := store.ClaimChanges(ctx, 500)
		if err != nil {
			return err
		}
		if len(claimed) == 0 {
			break
		}
	}

	utils.InfoLogger.WithField("orders", seedOpts.orders).Info("seed completed")
	return nil
}

func seedAdmin(ctx context.Context, store *database.Store, auth *services.AuthService) error {
	profile, err := store.GetProfileByEmail(ctx, seedOpts.adminEmail)
	if errors.Is(err, database.ErrNotFound) {
		profile, err = auth.SignUp(ctx, services.SignUpRequest{
			Email:    seedOpts.adminEmail,
			Password: seedOpts.adminPassword,
			FullName: "Administrator",
		})
	}
	if err != nil {
		return err
	}
	return store.UpdateProfileRole(ctx, profile.ID, models.RoleAdmin)
}

func seedMenu(ctx context.Context, store *database.Store) ([]models.Product, error) {
	var out []models.Product
	for pos, section := range demoMenu {
		cat := &models.Category{Name: section.category, Position: pos, IsActive: true}
		if err := store.CreateCategory(ctx, cat); err != nil {
			return nil, err
		}
		for name, price := range section.items {
			p := &models.Product{
				CategoryID:  &cat.ID,
				Name:        name,
				Price:       decimal.RequireFromString(price),
				IsAvailable: true,
			}
			if err := store.CreateProduct(ctx, p); err != nil {
				return nil, err
			}
			out = append(out, *p)
		}
	}
	return out, nil
}

func demoOrder(fake faker.Faker, products []models.Product, now time.Time) *models.Order {
	createdAt := now.Add(-time.Duration(rand.Int63n(int64(seedOpts.days) * int64(24*time.Hour))))
	status := models.StatusDelivered
	switch r := rand.Float64(); {
	case now.Sub(createdAt) < 2*time.Hour:
		status = models.AllStatuses[rand.Intn(4)]
	case r < 0.08:
		status = models.StatusCancelled
	}

	order := &models.Order{
		Status:        status,
		OrderType:     models.OrderTypePickup,
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentPaid,
		CreatedAt:     createdAt,
		GuestInfo: models.NewGuestInfo(&models.GuestInfo{
			Name:  fake.Person().Name(),
			Phone: fake.Phone().Number(),
			Email: fake.Internet().Email(),
		}),
		DeliveryAddress: models.NewDeliveryAddress(nil),
	}
	if rand.Intn(3) == 0 {
		order.OrderType = models.OrderTypeDelivery
		order.PaymentMethod = models.PaymentCard
		order.DeliveryFee = decimal.RequireFromString("2.50")
		order.DeliveryAddress = models.NewDeliveryAddress(&models.DeliveryAddress{
			Street: fake.Address().StreetAddress(),
			City:   fake.Address().City(),
			Phone:  fake.Phone().Number(),
		})
	}

	for n := 1 + rand.Intn(4); n > 0; n-- {
		p := products[rand.Intn(len(products))]
		pid := p.ID
		qty := 1 + rand.Intn(3)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   &pid,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			CreatedAt:   createdAt,
		})
		order.Subtotal = order.Subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	order.Total = order.Subtotal.Add(order.DeliveryFee)
	return order
}
