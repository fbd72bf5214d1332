package database

import (
	"context"

	"github.com/yeremiapane/restaurant-ordering/models"
	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID    string
	OnlyAvailable bool
	// Trashed lists soft-deleted products instead of active ones.
	Trashed bool
	Search  string
}

func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	q := db.Model(&models.Product{}).Preload("Category")
	if f.Trashed {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.OnlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+lower(f.Search)+"%")
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		return nil, WrapErr("list products", err)
	}
	return products, nil
}

// GetProduct finds an active product. Soft-deleted rows are ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var p models.Product
	if err := db.Preload("Category").First(&p, "id = ?", id).Error; err != nil {
		return nil, WrapErr("get product", err)
	}
	return &p, nil
}

// GetProductsByIDs returns active products keyed by id.
func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, WrapErr("get products", err)
	}
	out := make(map[string]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return WrapErr("create product", db.Select("*").Omit("Category", "DeletedAt").Create(p).Error)
}

// UpdateProduct writes the editable columns of an active product.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":         p.Name,
		"description":  p.Description,
		"price":        p.Price,
		"category_id":  p.CategoryID,
		"image_url":    p.ImageURL,
		"is_available": p.IsAvailable,
	})
	if res.Error != nil {
		return WrapErr("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id string) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return WrapErr("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RestoreProduct(ctx context.Context, id string) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Unscoped().Model(&models.Product{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return WrapErr("restore product", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	q := db.Model(&models.Category{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := q.Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, WrapErr("list categories", err)
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var c models.Category
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		return nil, WrapErr("get category", err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return WrapErr("create category", db.Select("*").Create(c).Error)
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.Category{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":      c.Name,
		"position":  c.Position,
		"is_active": c.IsActive,
	})
	if res.Error != nil {
		return WrapErr("update category", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category; its products keep existing without one.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return WrapErr("delete category", err)
}
