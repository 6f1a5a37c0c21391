package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/carbon-valuation/internal/model"
	"github.com/nurpe/carbon-valuation/internal/service"
)

type Handler struct {
	valuations *service.ValuationService
	log        zerolog.Logger
}

func NewHandler(valuations *service.ValuationService, log zerolog.Logger) *Handler {
	return &Handler{valuations: valuations, log: log}
}

func (h *Handler) Register(router *gin.Engine) {
	router.GET("/", h.root)
	router.GET("/health", h.health)

	api := router.Group("/api")
	api.POST("/predict", h.predict)
	api.POST("/predict/export", h.exportValuation)
	api.POST("/recommend-price", h.recommendPrice)
	api.GET("/price-history/:tokenId", h.priceHistory)
	api.GET("/market-metrics", h.marketMetrics)
}

type projectRequest struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	ProjectType            string   `json:"projectType" binding:"required"`
	Area                   float64  `json:"area" binding:"gt=0"`
	Location               string   `json:"location" binding:"required"`
	EstimatedCarbonCapture *float64 `json:"estimatedCarbonCapture" binding:"required,gte=0"`
	ActualCarbonCapture    *float64 `json:"actualCarbonCapture" binding:"omitempty,gte=0"`
	StartDate              string   `json:"startDate" binding:"required"`
	EndDate                string   `json:"endDate" binding:"required"`
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Carbon valuation service is running"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model_loaded": h.valuations.ModelLoaded()})
}

func (h *Handler) predict(c *gin.Context) {
	project, ok := bindProject(c)
	if !ok {
		return
	}

	result, err := h.valuations.Predict(c.Request.Context(), project)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) recommendPrice(c *gin.Context) {
	project, ok := bindProject(c)
	if !ok {
		return
	}

	recommendation, err := h.valuations.RecommendPrice(c.Request.Context(), project)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, recommendation)
}

func (h *Handler) exportValuation(c *gin.Context) {
	format, err := parseReportFormat(c.DefaultQuery("format", string(model.ReportFormatXLSX)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format"})
		return
	}
	project, ok := bindProject(c)
	if !ok {
		return
	}

	result, err := h.valuations.Export(c.Request.Context(), service.ExportInput{
		Project: project,
		Format:  format,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) priceHistory(c *gin.Context) {
	var days *int
	if raw, ok := c.GetQuery("days"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = &n
	}

	history, err := h.valuations.PriceHistory(c.Request.Context(), c.Param("tokenId"), days)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) marketMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.valuations.MarketMetrics(c.Request.Context()))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPredictionFailed):
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindProject writes a 400 response and returns false when the body is not a valid project.
func bindProject(c *gin.Context) (model.ProjectRecord, bool) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.ProjectRecord{}, false
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return model.ProjectRecord{}, false
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return model.ProjectRecord{}, false
	}

	return model.ProjectRecord{
		ID:                     req.ID,
		Name:                   req.Name,
		Description:            req.Description,
		ProjectType:            strings.TrimSpace(req.ProjectType),
		Area:                   req.Area,
		Location:               strings.TrimSpace(req.Location),
		EstimatedCarbonCapture: *req.EstimatedCarbonCapture,
		ActualCarbonCapture:    req.ActualCarbonCapture,
		StartDate:              start,
		EndDate:                end,
	}, true
}

func parseReportFormat(raw string) (model.ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "xlsx", "excel":
		return model.ReportFormatXLSX, nil
	case "pdf":
		return model.ReportFormatPDF, nil
	default:
		return "", service.ErrInvalidInput
	}
}

// parseDate accepts a calendar date or a timestamp and keeps only the calendar
// date the timestamp names in its own zone.
func parseDate(raw string) (time.Time, error) {
	parsed, ok := model.ParseDate(raw)
	if !ok {
		return time.Time{}, service.ErrInvalidInput
	}
	return parsed, nil
}
