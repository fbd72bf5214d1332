package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type AdminController struct {
	Admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{Admin: admin}
}

// GetDashboard -> statistik hari ini, order terbaru, produk terlaris
func (ac *AdminController) GetDashboard(c *gin.Context) {
	data, err := ac.Admin.Dashboard(c.Request.Context(), session(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard", data)
}

func (ac *AdminController) GetCustomers(c *gin.Context) {
	customers, err := ac.Admin.Customers(c.Request.Context(), session(c), c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customers", customers)
}

func (ac *AdminController) GetEmployees(c *gin.Context) {
	employees, err := ac.Admin.Employees(c.Request.Context(), session(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employees", employees)
}

// SetRole -> beri atau cabut akses back-office berdasarkan email
func (ac *AdminController) SetRole(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	profile, err := ac.Admin.SetRole(c.Request.Context(), session(c), body.Email, models.Role(body.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Role updated", profile)
}
