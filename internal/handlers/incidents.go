package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubesentry-dev/kubesentry/internal/models"
	"github.com/kubesentry-dev/kubesentry/internal/store"
)

type CreateIncidentRequest struct {
	Cluster         string             `json:"cluster" binding:"required"`
	Namespace       string             `json:"namespace" binding:"required"`
	ResourceType    string             `json:"resource_type" binding:"required"`
	ResourceName    string             `json:"resource_name" binding:"required"`
	IssueType       string             `json:"issue_type" binding:"required"`
	Severity        string             `json:"severity" binding:"required"`
	Description     string             `json:"description" binding:"required"`
	Logs            models.RawDocument `json:"logs"`
	Events          models.RawDocument `json:"events"`
	Diagnosis       string             `json:"diagnosis"`
	Recommendations string             `json:"recommendations"`
}

type UpdateIncidentRequest struct {
	IssueType       *string             `json:"issue_type"`
	Severity        *string             `json:"severity"`
	Description     *string             `json:"description"`
	Logs            *models.RawDocument `json:"logs"`
	Events          *models.RawDocument `json:"events"`
	Diagnosis       *string             `json:"diagnosis"`
	Recommendations *string             `json:"recommendations"`
	LastDetected    *time.Time          `json:"last_detected"`
	OccurrenceCount *int                `json:"occurrence_count"`
	Resolved        *bool               `json:"resolved"`
	ResolvedAt      *time.Time          `json:"resolved_at"`
	ResolutionNotes *string             `json:"resolution_notes"`
}

type IncidentListResponse struct {
	Total int               `json:"total"`
	Items []models.Incident `json:"items"`
}

type IncidentHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewIncidentHandler(s *store.Store, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{store: s, logger: logger}
}

// Create records a detection. A brand-new incident answers 201; a repeat
// detection folded into an existing incident answers 200.
func (h *IncidentHandler) Create(ctx *gin.Context) {
	var req CreateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	incident, created, err := h.store.CreateIncident(store.IncidentInput{
		Cluster:         req.Cluster,
		Namespace:       req.Namespace,
		ResourceType:    req.ResourceType,
		ResourceName:    req.ResourceName,
		IssueType:       req.IssueType,
		Severity:        req.Severity,
		Description:     req.Description,
		Logs:            req.Logs,
		Events:          req.Events,
		Diagnosis:       req.Diagnosis,
		Recommendations: req.Recommendations,
	})
	if err != nil {
		renderStoreError(ctx, h.logger, "create incident", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, incident)
}

func (h *IncidentHandler) List(ctx *gin.Context) {
	filters := store.IncidentFilters{
		Cluster:      ctx.Query("cluster"),
		Namespace:    ctx.Query("namespace"),
		ResourceType: ctx.Query("resource_type"),
		IssueType:    ctx.Query("issue_type"),
	}

	if raw := ctx.Query("resolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid resolved value"})
			return
		}
		filters.Resolved = &resolved
	}

	sortDesc := true
	if raw := ctx.Query("sort_desc"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid sort_desc value"})
			return
		}
		sortDesc = parsed
	}

	incidents, err := h.store.ListIncidents(filters, ctx.Query("sort_by"), sortDesc)
	if err != nil {
		renderStoreError(ctx, h.logger, "list incidents", err)
		return
	}

	if incidents == nil {
		incidents = []models.Incident{}
	}

	ctx.JSON(http.StatusOK, IncidentListResponse{Total: len(incidents), Items: incidents})
}

func (h *IncidentHandler) Get(ctx *gin.Context) {
	incident, err := h.store.GetIncident(ctx.Param("incident_id"))
	if err != nil {
		renderStoreError(ctx, h.logger, "get incident", err)
		return
	}

	ctx.JSON(http.StatusOK, incident)
}

func (h *IncidentHandler) Update(ctx *gin.Context) {
	var req UpdateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.store.UpdateIncident(ctx.Param("incident_id"), store.IncidentUpdate{
		IssueType:       req.IssueType,
		Severity:        req.Severity,
		Description:     req.Description,
		Logs:            req.Logs,
		Events:          req.Events,
		Diagnosis:       req.Diagnosis,
		Recommendations: req.Recommendations,
		LastDetected:    req.LastDetected,
		OccurrenceCount: req.OccurrenceCount,
		Resolved:        req.Resolved,
		ResolvedAt:      req.ResolvedAt,
		ResolutionNotes: req.ResolutionNotes,
	})
	if err != nil {
		renderStoreError(ctx, h.logger, "update incident", err)
		return
	}

	ctx.JSON(http.StatusOK, incident)
}

func (h *IncidentHandler) Delete(ctx *gin.Context) {
	if err := h.store.DeleteIncident(ctx.Param("incident_id")); err != nil {
		renderStoreError(ctx, h.logger, "delete incident", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// renderStoreError maps the store's error taxonomy onto HTTP status codes.
// Anything unclassified is a persistence failure and stays opaque to the
// caller.
func renderStoreError(ctx *gin.Context, logger *zap.Logger, op string, err error) {
	var validation *store.ValidationError

	switch {
	case errors.As(err, &validation):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": validation.Error()})
	case errors.Is(err, store.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Store operation failed", zap.String("op", op), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
