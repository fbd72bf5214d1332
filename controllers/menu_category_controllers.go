package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type MenuCategoryController struct {
	Catalog *services.Catalog
}

func NewMenuCategoryController(catalog *services.Catalog) *MenuCategoryController {
	return &MenuCategoryController{Catalog: catalog}
}

// GetCategories -> kategori aktif untuk storefront, urut berdasarkan position
func (mcc *MenuCategoryController) GetCategories(c *gin.Context) {
	cats, err := mcc.Catalog.MenuCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories", cats)
}

func (mcc *MenuCategoryController) AdminListCategories(c *gin.Context) {
	cats, err := mcc.Catalog.AdminCategories(c.Request.Context(), session(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories", cats)
}

func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	cat, err := mcc.Catalog.CreateCategory(c.Request.Context(), session(c), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", cat)
}

func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	cat, err := mcc.Catalog.UpdateCategory(c.Request.Context(), session(c), c.Param("category_id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", cat)
}

// DeleteCategory -> produk di kategori ini menjadi tanpa kategori
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	if err := mcc.Catalog.DeleteCategory(c.Request.Context(), session(c), c.Param("category_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}
