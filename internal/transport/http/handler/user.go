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

// userUsecaser is the subset of UserUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type userUsecaser interface {
	Create(ctx context.Context, in usecase.CreateUserInput) error
	Get(ctx context.Context, phone, tokenID string) (*domain.User, error)
	Update(ctx context.Context, in usecase.UpdateUserInput) error
	Delete(ctx context.Context, phone, tokenID string) error
}

type UserHandler struct {
	users  userUsecaser
	logger *slog.Logger
}

func NewUserHandler(users userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

type createUserRequest struct {
	FirstName    string `json:"firstName"    binding:"required"`
	LastName     string `json:"lastName"     binding:"required"`
	Phone        string `json:"phone"        binding:"required,len=10"`
	Password     string `json:"password"     binding:"required"`
	TOSAgreement bool   `json:"tosAgreement" binding:"required"`
}

type updateUserRequest struct {
	Phone     string `json:"phone"     binding:"required,len=10"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// userResponse never carries the hashed password.
type userResponse struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Phone        string   `json:"phone"`
	TOSAgreement bool     `json:"tosAgreement"`
	Checks       []string `json:"checks,omitempty"`
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Password:     req.Password,
		TOSAgreement: req.TOSAgreement,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": errUserExists})
		default:
			h.logger.Error("create user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// GET /users?phone=<phone>
func (h *UserHandler) Get(c *gin.Context) {
	phone := c.Query("phone")
	token := c.GetHeader("token")

	user, err := h.users.Get(c.Request.Context(), phone, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logger.Error("get user", "phone", phone, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, userResponse{
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		TOSAgreement: user.TOSAgreement,
		Checks:       user.Checks,
	})
}

// PUT /users
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.users.Update(c.Request.Context(), usecase.UpdateUserInput{
		Phone:     req.Phone,
		TokenID:   c.GetHeader("token"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logger.Error("update user", "phone", req.Phone, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// DELETE /users?phone=<phone>
func (h *UserHandler) Delete(c *gin.Context) {
	phone := c.Query("phone")
	token := c.GetHeader("token")

	err := h.users.Delete(c.Request.Context(), phone, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInput})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		case errors.Is(err, domain.ErrCascadeIncomplete):
			c.JSON(http.StatusInternalServerError, gin.H{"error": errCascadeIncomplete})
		default:
			h.logger.Error("delete user", "phone", phone, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
