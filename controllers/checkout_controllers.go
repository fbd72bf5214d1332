package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type CheckoutController struct {
	Checkout *services.Checkout
}

func NewCheckoutController(checkout *services.Checkout) *CheckoutController {
	return &CheckoutController{Checkout: checkout}
}

// PlaceOrder -> checkout storefront, guest maupun customer login
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := cc.Checkout.PlaceOrder(c.Request.Context(), session(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", gin.H{
		"order_id": order.ID,
		"short_id": order.ShortID(),
		"total":    order.Total,
		"order":    order,
	})
}
