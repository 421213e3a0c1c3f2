package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/service"
	"github.com/spec-kit/auth-service/internal/validation"
	"github.com/spec-kit/auth-service/pkg/util"
)

// AuthHandler exposes the register and login endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	cookieDomain string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cookieDomain: cfg.CookieDomain}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if errs := validation.RegisterSchema().Validate(req.Values()); len(errs) > 0 {
		return util.NewValidationError(errs)
	}

	user, pair, err := h.auth.Register(c.UserContext(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, pair)
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{ID: user.ID})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if errs := validation.LoginSchema().Validate(req.Values()); len(errs) > 0 {
		return util.NewValidationError(errs)
	}

	user, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, pair)
	return c.JSON(dto.AuthResponse{ID: user.ID})
}

// Self handles GET /auth/self for authenticated callers.
func (h *AuthHandler) Self(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.NewUserResponse(principal.User))
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, pair *service.TokenPair) {
	c.Cookie(h.tokenCookie("accessToken", pair.AccessToken, pair.AccessTokenTTL))
	c.Cookie(h.tokenCookie("refreshToken", pair.RefreshToken, pair.RefreshTokenTTL))
}

func (h *AuthHandler) tokenCookie(name, value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Domain:   h.cookieDomain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
