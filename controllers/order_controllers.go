package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type OrderController struct {
	Board     *services.OrderBoard
	Lifecycle *services.OrderLifecycle
}

func NewOrderController(board *services.OrderBoard, lifecycle *services.OrderLifecycle) *OrderController {
	return &OrderController{Board: board, Lifecycle: lifecycle}
}

// GetLanes -> order board dikelompokkan per lane
func (oc *OrderController) GetLanes(c *gin.Context) {
	lanes, err := oc.Board.Lanes(c.Request.Context(), session(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order board", lanes)
}

type orderDetail struct {
	*models.Order
	ShortID      string               `json:"short_id"`
	CustomerName string               `json:"customer_name"`
	Transitions  []models.OrderStatus `json:"available_transitions"`
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Lifecycle.Order(c.Request.Context(), session(c), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", orderDetail{
		Order:        order,
		ShortID:      order.ShortID(),
		CustomerName: order.CustomerName(),
		Transitions:  services.AvailableTransitions(order.Status, models.SurfaceOrderDetail),
	})
}

// UpdateStatus -> transisi status dari halaman detail order
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status    string `json:"status" binding:"required"`
		Confirmed bool   `json:"confirmed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	target, err := models.ParseOrderStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := oc.Lifecycle.Transition(c.Request.Context(), session(c), c.Param("order_id"), target, services.TransitionOptions{
		Surface:   models.SurfaceOrderDetail,
		Confirmed: body.Confirmed,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	msg := "Order status updated"
	if !res.Changed {
		msg = "Order already " + string(res.Order.Status)
	}
	utils.RespondJSON(c, http.StatusOK, msg, res.Order)
}

func (oc *OrderController) UpdatePaymentStatus(c *gin.Context) {
	var body struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := oc.Lifecycle.UpdatePaymentStatus(c.Request.Context(), session(c), c.Param("order_id"), models.PaymentStatus(body.PaymentStatus))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status updated", order)
}

// CreateManualOrder -> order walk-in dari back-office
func (oc *OrderController) CreateManualOrder(c *gin.Context) {
	var body struct {
		CustomerName string                     `json:"customer_name"`
		Items        []services.ManualOrderLine `json:"items" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	sess := session(c)
	if sess == nil || !sess.IsBackOffice() {
		respondServiceError(c, services.ErrForbidden)
		return
	}

	draft, err := oc.Board.DraftFromRequest(c.Request.Context(), body.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := oc.Board.SubmitManualOrder(c.Request.Context(), sess, draft, body.CustomerName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}
