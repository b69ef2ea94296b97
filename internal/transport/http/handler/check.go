package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abylaikhan/upcheck/internal/domain"
	"github.com/abylaikhan/upcheck/internal/usecase"
	"github.com/gin-gonic/gin"
)

type checkUsecaser interface {
	Create(ctx context.Context, in usecase.CreateCheckInput) (*domain.Check, error)
	Get(ctx context.Context, id, tokenID string) (*domain.Check, error)
	Update(ctx context.Context, in usecase.UpdateCheckInput) error
	Delete(ctx context.Context, id, tokenID string) error
}

type CheckHandler struct {
	checks checkUsecaser
	logger *slog.Logger
}

func NewCheckHandler(checks checkUsecaser, logger *slog.Logger) *CheckHandler {
	return &CheckHandler{checks: checks, logger: logger.With("component", "check_handler")}
}

type createCheckRequest struct {
	Protocol       string `json:"protocol"       binding:"required,oneof=http https"`
	URL            string `json:"url"            binding:"required"`
	Method         string `json:"method"         binding:"required,oneof=get post put delete"`
	SuccessCodes   []int  `json:"successCodes"   binding:"required,min=1"`
	TimeoutSeconds int    `json:"timeoutSeconds" binding:"required,min=1,max=5"`
}

type updateCheckRequest struct {
	ID             string `json:"id"             binding:"required,len=20"`
	Protocol       string `json:"protocol"       binding:"omitempty,oneof=http https"`
	URL            string `json:"url"`
	Method         string `json:"method"         binding:"omitempty,oneof=get post put delete"`
	SuccessCodes   []int  `json:"successCodes"   binding:"omitempty,min=1"`
	TimeoutSeconds int    `json:"timeoutSeconds" binding:"omitempty,min=1,max=5"`
}

type checkResponse struct {
	ID             string `json:"id"`
	UserPhone      string `json:"userPhone"`
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

func newCheckResponse(check *domain.Check) checkResponse {
	return checkResponse{
		ID:             check.ID,
		UserPhone:      check.UserPhone,
		Protocol:       check.Protocol,
		URL:            check.URL,
		Method:         check.Method,
		SuccessCodes:   check.SuccessCodes,
		TimeoutSeconds: check.TimeoutSeconds,
	}
}

// POST /checks
func (h *CheckHandler) Create(c *gin.Context) {
	var req createCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	check, err := h.checks.Create(c.Request.Context(), usecase.CreateCheckInput{
		TokenID:        c.GetHeader("token"),
		Protocol:       req.Protocol,
		URL:            req.URL,
		Method:         req.Method,
		SuccessCodes:   req.SuccessCodes,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrMaxChecksReached):
			c.JSON(http.StatusBadRequest, gin.H{"error": errMaxChecksReached})
		default:
			h.logger.Error("create check", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, newCheckResponse(check))
}

// GET /checks?id=<id>
func (h *CheckHandler) Get(c *gin.Context) {
	id := c.Query("id")
	token := c.GetHeader("token")

	check, err := h.checks.Get(c.Request.Context(), id, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrCheckNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCheckNotFound})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		default:
			h.logger.Error("get check", "check_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, newCheckResponse(check))
}

// PUT /checks
func (h *CheckHandler) Update(c *gin.Context) {
	var req updateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.checks.Update(c.Request.Context(), usecase.UpdateCheckInput{
		ID:             req.ID,
		TokenID:        c.GetHeader("token"),
		Protocol:       req.Protocol,
		URL:            req.URL,
		Method:         req.Method,
		SuccessCodes:   req.SuccessCodes,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrCheckNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCheckNotFound})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		default:
			h.logger.Error("update check", "check_id", req.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// DELETE /checks?id=<id>
func (h *CheckHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	token := c.GetHeader("token")

	err := h.checks.Delete(c.Request.Context(), id, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrCheckNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCheckNotFound})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		default:
			h.logger.Error("delete check", "check_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
