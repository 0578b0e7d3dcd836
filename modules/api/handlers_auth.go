package api

import (
	"encoding/json"

	domain "github.com/example/taskward/domain/user"
	"github.com/example/taskward/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	taskContainer mono.ServiceContainer
	identity      auth.IdentityPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, taskContainer mono.ServiceContainer, identity auth.IdentityPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		taskContainer: taskContainer,
		identity:      identity,
	}
}

// claims returns the identity the auth middleware resolved for this request.
func (h *Handlers) claims(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "Name, email and password are required")
	}

	authReq := auth.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{
		RefreshToken: req.RefreshToken,
	}
	var resp auth.RefreshResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"refresh-token",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Profile returns the authenticated user's profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.identity.GetProfile(c.UserContext(), claims.UserID)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	})
}

// UpdateProfile applies a partial update to the authenticated user's
// name and bio.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	authReq := auth.UpdateProfileRequest{
		UserID: claims.UserID,
		Name:   req.Name,
		Bio:    req.Bio,
	}
	var resp auth.ProfileResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"update-profile",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ProfileResponse{
		ID:        resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		Bio:       resp.Bio,
		CreatedAt: resp.CreatedAt,
	})
}
