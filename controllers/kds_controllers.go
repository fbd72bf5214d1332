package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-ordering/kds"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type KDSController struct {
	Kitchen  *services.KitchenDisplay
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController. allowedOrigin "*" accepts any origin.
func NewKDSController(kitchen *services.KitchenDisplay, hub *kds.Hub, allowedOrigin string) *KDSController {
	return &KDSController{
		Kitchen: kitchen,
		Hub:     hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// GetTickets -> tiket dapur (pending + preparing), paling lama di depan
func (kc *KDSController) GetTickets(c *gin.Context) {
	sess := session(c)
	if sess == nil || !sess.IsBackOffice() {
		respondServiceError(c, services.ErrForbidden)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen tickets", kc.Kitchen.Tickets())
}

func (kc *KDSController) StartCooking(c *gin.Context) {
	if err := kc.Kitchen.StartCooking(c.Request.Context(), session(c), c.Param("order_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order is being prepared", kc.Kitchen.Tickets())
}

func (kc *KDSController) MarkReady(c *gin.Context) {
	if err := kc.Kitchen.MarkReady(c.Request.Context(), session(c), c.Param("order_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order is ready", kc.Kitchen.Tickets())
}

// KDSHandler -> endpoint WebSocket
func (kc *KDSController) KDSHandler(c *gin.Context) {
	sess := session(c)
	if sess == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if !sess.IsBackOffice() {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	kc.Hub.Register(ws, string(sess.Role))
	// Snapshot awal supaya client tidak menunggu refresh berikutnya
	kc.Hub.BroadcastKitchenUpdate(kc.Kitchen.Tickets())

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.Unregister(ws)
}
