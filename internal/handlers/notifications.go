package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubesentry-dev/kubesentry/internal/models"
	"github.com/kubesentry-dev/kubesentry/internal/store"
)

type CreateNotificationRequest struct {
	IncidentID  string `json:"incident_id" binding:"required"`
	Channel     string `json:"channel" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Severity    string `json:"severity" binding:"required"`
	Error       string `json:"error"`
}

type NotificationListResponse struct {
	Total int                   `json:"total"`
	Items []models.Notification `json:"items"`
}

type NotificationHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewNotificationHandler(s *store.Store, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{store: s, logger: logger}
}

func (h *NotificationHandler) Create(ctx *gin.Context) {
	var req CreateNotificationRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.store.CreateNotification(store.NotificationInput{
		IncidentID:  req.IncidentID,
		Channel:     req.Channel,
		Destination: req.Destination,
		Severity:    req.Severity,
		Error:       req.Error,
	})
	if err != nil {
		renderStoreError(ctx, h.logger, "create notification", err)
		return
	}

	ctx.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) List(ctx *gin.Context) {
	notifications, err := h.store.ListNotifications(store.NotificationFilters{
		IncidentID: ctx.Query("incident_id"),
		Channel:    ctx.Query("channel"),
		Status:     ctx.Query("status"),
	})
	if err != nil {
		renderStoreError(ctx, h.logger, "list notifications", err)
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	ctx.JSON(http.StatusOK, NotificationListResponse{Total: len(notifications), Items: notifications})
}

func (h *NotificationHandler) Get(ctx *gin.Context) {
	id, err := parseNotificationID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid notification ID"})
		return
	}

	notification, err := h.store.GetNotification(id)
	if err != nil {
		renderStoreError(ctx, h.logger, "get notification", err)
		return
	}

	ctx.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) Delete(ctx *gin.Context) {
	id, err := parseNotificationID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.store.DeleteNotification(id); err != nil {
		renderStoreError(ctx, h.logger, "delete notification", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseNotificationID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("notification_id"), 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
