package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type NotificationController struct {
	Feed *services.NotificationFeed
}

func NewNotificationController(feed *services.NotificationFeed) *NotificationController {
	return &NotificationController{Feed: feed}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Notifications", gin.H{
		"notifications": nc.Feed.List(),
		"unread_count":  nc.Feed.UnreadCount(),
	})
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	if !nc.Feed.MarkAsRead(c.Param("id")) {
		utils.RespondJSON(c, http.StatusOK, "Notification already read", gin.H{"unread_count": nc.Feed.UnreadCount()})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", gin.H{"unread_count": nc.Feed.UnreadCount()})
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	nc.Feed.MarkAllAsRead()
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{"unread_count": 0})
}

func (nc *NotificationController) Clear(c *gin.Context) {
	if !nc.Feed.Clear(c.Param("id")) {
		respondServiceError(c, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification removed", gin.H{"unread_count": nc.Feed.UnreadCount()})
}

func (nc *NotificationController) ClearAll(c *gin.Context) {
	nc.Feed.ClearAll()
	utils.RespondJSON(c, http.StatusOK, "Notifications cleared", nil)
}
