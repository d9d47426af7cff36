package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/config"
	"github.com/chanaka-devx/L-essence/internal/middleware"
	"github.com/chanaka-devx/L-essence/internal/model"
	"github.com/chanaka-devx/L-essence/internal/repository"
	"github.com/chanaka-devx/L-essence/internal/utils"
)

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u repository.NewUser, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, name, email, phone string) error
}

// AuthHandler bundles dependencies for signup, login and profile endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Log   logrus.FieldLogger
}

func NewAuthHandler(cfg config.Config, u UserStore, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name" validate:"max=120"`
	Email    string `json:"email" validate:"required,email,max=190"`
	Phone    string `json:"phone" validate:"max=40"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileReq struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=190"`
	Phone string `json:"phone" validate:"required,max=40"`
}

type profileResp struct {
	ID        uint64    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Signup creates a customer account and returns a token immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, repository.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     model.RoleCustomer,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return writeError(c, http.StatusConflict, "conflict", "User already exists", nil)
		}
		return respondError(c, h.Log, err)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, model.RoleCustomer, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"token":   access.Token,
		"expires": access.Exp,
		"role":    model.RoleCustomer,
		"user_id": uid,
	})
}

// Login verifies credentials and returns a signed token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return writeError(c, http.StatusUnauthorized, "unauthorized", "Invalid email or password", nil)
	}
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return writeError(c, http.StatusUnauthorized, "unauthorized", "Invalid email or password", nil)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   access.Token,
		"expires": access.Exp,
		"role":    u.Role,
		"user_id": u.ID,
	})
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", nil)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return writeError(c, http.StatusNotFound, "not_found", "User not found", nil)
	}
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, profileResp{
		ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, CreatedAt: u.CreatedAt,
	})
}

// UpdateMe overwrites the caller's name, email and phone.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", nil)
	}
	var req profileReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Users.UpdateProfile(ctx, uid, req.Name, strings.ToLower(strings.TrimSpace(req.Email)), req.Phone)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
	case errors.Is(err, repository.ErrNotFound):
		return writeError(c, http.StatusNotFound, "not_found", "User not found", nil)
	case errors.Is(err, repository.ErrEmailExists):
		return writeError(c, http.StatusConflict, "conflict", "Email already in use", nil)
	default:
		return respondError(c, h.Log, err)
	}
}
