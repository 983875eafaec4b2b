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

// AuthHandler handles HTTP requests for signup, login, the NGO listing, and
// NGO configuration.
type AuthHandler struct {
	service *logicv1.AuthService
	images  *storage.Store
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *logicv1.AuthService, images *storage.Store) *AuthHandler {
	return &AuthHandler{
		service: service,
		images:  images,
	}
}

// Signup handles POST /api/v1/auth/signup (multipart, optional logo file).
func (h *AuthHandler) Signup(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	req := domain.RegisterRequest{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		Phone:       c.PostForm("phoneNumber"),
		Role:        c.PostForm("role"),
		Category:    c.PostForm("category"),
		Location:    c.PostForm("location"),
		Description: c.PostForm("description"),
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name, email and password are required"})
		return
	}

	// The logo is optional; a broken upload rejects the signup rather than
	// silently dropping the file.
	if file, err := c.FormFile("logo"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			respondError(c, logger, err)
			return
		}
		url, err := h.images.Save(src)
		src.Close()
		if err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not process logo image"})
			return
		}
		req.LogoURL = url
	}

	account, tok, err := h.service.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		respondError(c, logger, err)
		return
	}

	logger.Info("Account registered",
		zap.String("account_id", account.ID),
		zap.String("role", account.Role),
	)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": account, "token": tok})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": sanitizeValidationError(err)})
		return
	}

	account, tok, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		respondError(c, logger, err)
		return
	}

	logger.Info("Login successful", zap.String("account_id", account.ID))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login Successful",
		"user":    account,
		"token":   tok,
	})
}

// ListNGOs handles GET /api/v1/auth/ngos.
func (h *AuthHandler) ListNGOs(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	ngos, err := h.service.ListConfiguredNGOs(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to list NGOs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching NGOs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All NGOs Fetched Successfully",
		"ngos":    ngos,
	})
}

// Configure handles POST /api/v1/auth/configure (NGO catalog setup).
func (h *AuthHandler) Configure(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	callerID := c.GetString("account_id")
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	var req domain.ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": sanitizeValidationError(err)})
		return
	}

	account, err := h.service.ConfigureAcceptedItems(ctx, callerID, c.GetString("role"), req.AcceptedItems)
	if err != nil {
		span.RecordError(err)
		respondError(c, logger, err)
		return
	}

	logger.Info("NGO configured",
		zap.String("account_id", callerID),
		zap.Int("items", len(account.NGO.AcceptedItems)),
	)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "NGO configured successfully",
		"user":    account,
	})
}
