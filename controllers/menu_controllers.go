package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type MenuController struct {
	Catalog *services.Catalog
}

func NewMenuController(catalog *services.Catalog) *MenuController {
	return &MenuController{Catalog: catalog}
}

// GetMenu -> produk yang tersedia, opsional filter ?category_id=
func (mc *MenuController) GetMenu(c *gin.Context) {
	products, err := mc.Catalog.MenuProducts(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", products)
}

func (mc *MenuController) GetProductByID(c *gin.Context) {
	product, err := mc.Catalog.Product(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

// AdminListProducts -> ?deleted=true menampilkan isi trash
func (mc *MenuController) AdminListProducts(c *gin.Context) {
	trashed, _ := strconv.ParseBool(c.DefaultQuery("deleted", "false"))
	products, err := mc.Catalog.AdminProducts(c.Request.Context(), session(c), trashed, c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Products", products)
}

func (mc *MenuController) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := mc.Catalog.CreateProduct(c.Request.Context(), session(c), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (mc *MenuController) UpdateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := mc.Catalog.UpdateProduct(c.Request.Context(), session(c), c.Param("product_id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> soft delete, riwayat order tetap menampilkan nama produk
func (mc *MenuController) DeleteProduct(c *gin.Context) {
	if err := mc.Catalog.DeleteProduct(c.Request.Context(), session(c), c.Param("product_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product moved to trash", nil)
}

func (mc *MenuController) RestoreProduct(c *gin.Context) {
	if err := mc.Catalog.RestoreProduct(c.Request.Context(), session(c), c.Param("product_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product restored", nil)
}
