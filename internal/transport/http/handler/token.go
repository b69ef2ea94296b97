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

type tokenUsecaser interface {
	Issue(ctx context.Context, in usecase.IssueTokenInput) (*domain.Token, error)
	Get(ctx context.Context, id string) (*domain.Token, error)
	Renew(ctx context.Context, in usecase.RenewTokenInput) error
	Revoke(ctx context.Context, id string) error
}

type TokenHandler struct {
	tokens tokenUsecaser
	logger *slog.Logger
}

func NewTokenHandler(tokens tokenUsecaser, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger.With("component", "token_handler")}
}

type issueTokenRequest struct {
	Phone    string `json:"phone"    binding:"required,len=10"`
	Password string `json:"password" binding:"required"`
}

type renewTokenRequest struct {
	ID     string `json:"id"     binding:"required,len=20"`
	Extend bool   `json:"extend" binding:"required"`
}

type tokenResponse struct {
	ID      string `json:"id"`
	Phone   string `json:"phone"`
	Expires int64  `json:"expires"`
}

// POST /tokens
func (h *TokenHandler) Issue(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), usecase.IssueTokenInput{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		case errors.Is(err, domain.ErrPasswordMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errPasswordMismatch})
		default:
			h.logger.Error("issue token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		ID:      token.ID,
		Phone:   token.Phone,
		Expires: token.Expires,
	})
}

// GET /tokens?id=<id>
func (h *TokenHandler) Get(c *gin.Context) {
	id := c.Query("id")

	token, err := h.tokens.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errTokenNotFound})
		default:
			h.logger.Error("get token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		ID:      token.ID,
		Phone:   token.Phone,
		Expires: token.Expires,
	})
}

// PUT /tokens
func (h *TokenHandler) Renew(c *gin.Context) {
	var req renewTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.tokens.Renew(c.Request.Context(), usecase.RenewTokenInput{
		ID:     req.ID,
		Extend: req.Extend,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errTokenNotFound})
		case errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenExpired})
		default:
			h.logger.Error("renew token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// DELETE /tokens?id=<id>
func (h *TokenHandler) Revoke(c *gin.Context) {
	id := c.Query("id")

	err := h.tokens.Revoke(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errTokenNotFound})
		default:
			h.logger.Error("revoke token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
