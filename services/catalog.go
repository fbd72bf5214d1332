package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
)

type CatalogStore interface {
	ListProducts(ctx context.Context, f database.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	SoftDeleteProduct(ctx context.Context, id string) error
	RestoreProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// Catalog serves the public menu and the admin product pages.
type Catalog struct {
	store CatalogStore
}

func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{store: store}
}

// MenuCategories lists active categories by position.
func (c *Catalog) MenuCategories(ctx context.Context) ([]models.Category, error) {
	return c.store.ListCategories(ctx, true)
}

// MenuProducts lists orderable products, optionally for one category.
func (c *Catalog) MenuProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	return c.store.ListProducts(ctx, database.ProductFilter{CategoryID: categoryID, OnlyAvailable: true})
}

func (c *Catalog) Product(ctx context.Context, id string) (*models.Product, error) {
	return c.store.GetProduct(ctx, id)
}

// AdminProducts lists active products, or the trash when trashed is set.
func (c *Catalog) AdminProducts(ctx context.Context, sess *Session, trashed bool, search string) ([]models.Product, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	return c.store.ListProducts(ctx, database.ProductFilter{Trashed: trashed, Search: search})
}

type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       string  `json:"price" binding:"required"`
	CategoryID  *string `json:"category_id"`
	ImageURL    string  `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
}

func (in ProductInput) toProduct() (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return nil, invalid("price", "must be a decimal number")
	}
	if price.IsNegative() {
		return nil, invalid("price", "must not be negative")
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	categoryID := in.CategoryID
	if categoryID != nil && *categoryID == "" {
		categoryID = nil
	}
	return &models.Product{
		Name:        name,
		Description: in.Description,
		Price:       price.Round(2),
		CategoryID:  categoryID,
		ImageURL:    in.ImageURL,
		IsAvailable: available,
	}, nil
}

func (c *Catalog) CreateProduct(ctx context.Context, sess *Session, in ProductInput) (*models.Product, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	p, err := in.toProduct()
	if err != nil {
		return nil, err
	}
	if err := c.checkCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	if err := c.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, sess *Session, id string, in ProductInput) (*models.Product, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	p, err := in.toProduct()
	if err != nil {
		return nil, err
	}
	if err := c.checkCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	p.ID = id
	if err := c.store.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return c.store.GetProduct(ctx, id)
}

// DeleteProduct moves the product to the trash. Past orders keep rendering it.
func (c *Catalog) DeleteProduct(ctx context.Context, sess *Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return c.store.SoftDeleteProduct(ctx, id)
}

func (c *Catalog) RestoreProduct(ctx context.Context, sess *Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return c.store.RestoreProduct(ctx, id)
}

func (c *Catalog) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := c.store.GetCategory(ctx, *id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return invalid("category_id", "unknown category")
		}
		return err
	}
	return nil
}

func (c *Catalog) AdminCategories(ctx context.Context, sess *Session) ([]models.Category, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	return c.store.ListCategories(ctx, false)
}

type CategoryInput struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
	IsActive *bool  `json:"is_active"`
}

func (in CategoryInput) toCategory() (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &models.Category{Name: name, Position: in.Position, IsActive: active}, nil
}

func (c *Catalog) CreateCategory(ctx context.Context, sess *Session, in CategoryInput) (*models.Category, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	cat, err := in.toCategory()
	if err != nil {
		return nil, err
	}
	if err := c.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) UpdateCategory(ctx context.Context, sess *Session, id string, in CategoryInput) (*models.Category, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	cat, err := in.toCategory()
	if err != nil {
		return nil, err
	}
	cat.ID = id
	if err := c.store.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return c.store.GetCategory(ctx, id)
}

func (c *Catalog) DeleteCategory(ctx context.Context, sess *Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return c.store.DeleteCategory(ctx, id)
}
