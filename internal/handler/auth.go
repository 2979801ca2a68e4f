package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/config"
	"github.com/pcordova/dvd-rental-api/internal/model"
	"github.com/pcordova/dvd-rental-api/internal/repository"
	"github.com/pcordova/dvd-rental-api/internal/utils"
)

// StaffStore is the slice of the staff repository the auth endpoints need.
type StaffStore interface {
	GetByUsername(ctx context.Context, username string) (model.Staff, error)
	GetByID(ctx context.Context, staffID uint64) (model.Staff, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Staff StaffStore
}

func NewAuthHandler(cfg config.Config, s StaffStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Staff: s}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type verifyReq struct {
	Token string `json:"token"`
}

type staffPart struct {
	StaffID   uint64  `json:"staff_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	Active    bool    `json:"active"`
}

func staffDetails(s model.Staff) staffPart {
	return staffPart{
		StaffID:   s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Username:  s.Username,
		Email:     s.Email,
		Active:    s.Active,
	}
}

// Login: verify credentials and hand out a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil || req == (loginReq{}) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Request body is required"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Staff.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyStaffPassword(s.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	tok, err := utils.NewStaffToken(h.Cfg.JWTSecret, s.ID, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   tok.Token,
		"staff":   staffDetails(s),
	})
}

// Verify: check a token's validity and echo back the staff details.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Token is required"})
	}

	staffID, err := utils.ParseStaffToken(h.Cfg.JWTSecret, req.Token)
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, utils.ErrTokenExpired) {
			msg = "Token has expired"
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Staff member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"valid": true,
		"staff": staffDetails(s),
	})
}
