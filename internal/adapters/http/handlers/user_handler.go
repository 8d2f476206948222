package handlers

import (
	"errors"
	"strconv"

	"guilde-api/internal/core/services"
	"guilde-api/internal/pkg/pagination"
	"guilde-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles admin account management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SetActiveRequest represents an account activation request body
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// SetPasswordRequest represents a password change request body
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// ListUsers lists auth accounts with pagination
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.userService.ListUsers(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// SetActive enables or disables an account
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}
	callerUserID, _ := c.Locals("userID").(uint)

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), req.Active, callerUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrSelfDeactivation):
			return response.Forbidden(c, "You cannot deactivate your own account")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}

// SetPassword sets or replaces an account's password
func (h *UserHandler) SetPassword(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Password) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	if err := h.userService.SetPassword(c.Context(), uint(id), req.Password); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update password")
	}

	return response.Success(c, "Password updated successfully", nil)
}
