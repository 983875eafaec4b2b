package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/givehope/donation-service/internal/core/domain"
	logicv1 "github.com/givehope/donation-service/internal/logic/v1"
	"github.com/givehope/donation-service/internal/storage"
	"github.com/givehope/donation-service/middleware"
)

// DonationHandler handles HTTP requests for creating, listing and deciding
// donation requests.
type DonationHandler struct {
	service *logicv1.DonationService
	images  *storage.Store
}

// NewDonationHandler creates a new donation handler.
func NewDonationHandler(service *logicv1.DonationService, images *storage.Store) *DonationHandler {
	return &DonationHandler{
		service: service,
		images:  images,
	}
}

// Create handles POST /api/v1/donations (multipart with one or more images).
func (h *DonationHandler) Create(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	donorID := c.GetString("account_id")
	if donorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	req := domain.CreateDonationRequest{
		NGOID:         c.PostForm("ngoId"),
		DonorName:     c.PostForm("userName"),
		DonorEmail:    c.PostForm("userEmail"),
		DonorPhone:    c.PostForm("userPhoneNumber"),
		ItemName:      c.PostForm("itemName"),
		Description:   c.PostForm("description"),
		PickupAddress: c.PostForm("userAddress"),
	}
	if req.NGOID == "" || req.ItemName == "" {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ngoId and itemName are required"})
		return
	}

	var urls []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["images"] {
			src, err := file.Open()
			if err != nil {
				respondError(c, logger, err)
				return
			}
			url, err := h.images.Save(src)
			src.Close()
			if err != nil {
				span.RecordError(err)
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not process uploaded image"})
				return
			}
			urls = append(urls, url)
		}
	}

	donation, err := h.service.Create(ctx, donorID, req, urls)
	if err != nil {
		span.RecordError(err)
		respondError(c, logger, err)
		return
	}

	logger.Info("Donation created",
		zap.String("donation_id", donation.ID),
		zap.String("ngo_id", donation.NGOID),
		zap.Int("images", len(donation.Images)),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Donation created successfully",
		"donation": donation,
	})
}

// ListForDonor handles GET /api/v1/donations/user/:userId.
func (h *DonationHandler) ListForDonor(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	donations, err := h.service.ListForDonor(ctx, c.Param("userId"))
	if err != nil {
		span.RecordError(err)
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "donations": donations})
}

// ListForNGO handles GET /api/v1/donations/ngo/:ngoId.
func (h *DonationHandler) ListForNGO(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	donations, err := h.service.ListForNGO(ctx, c.Param("ngoId"))
	if err != nil {
		span.RecordError(err)
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "donations": donations})
}

// UpdateStatus handles PUT /api/v1/donations/:id/status.
func (h *DonationHandler) UpdateStatus(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": sanitizeValidationError(err)})
		return
	}

	donation, err := h.service.Transition(ctx, c.Param("id"), req.Status)
	if err != nil {
		span.RecordError(err)
		respondError(c, logger, err)
		return
	}

	logger.Info("Donation status updated",
		zap.String("donation_id", donation.ID),
		zap.String("status", donation.Status),
	)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Donation status updated",
		"donation": donation,
	})
}
