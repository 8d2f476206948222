package handlers

import (
	"errors"

	"guilde-api/internal/core/domain"
	"guilde-api/internal/core/services"
	"guilde-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles member self-service endpoints
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns the caller's profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileID").(string)
	if !ok || profileID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	profile, err := h.profileService.GetProfile(c.Context(), profileID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return response.NotFound(c, "Profile not found")
		}
		return response.InternalServerError(c, "Failed to retrieve profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"profile": profile,
	})
}

// UpdateProfile updates the caller's editable profile fields
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileID").(string)
	if !ok || profileID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.profileService.UpdateProfile(c.Context(), profileID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			return response.NotFound(c, "Profile not found")
		case errors.Is(err, domain.ErrInvalidMemberType):
			return response.BadRequest(c, "Invalid member type")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"profile": profile,
	})
}

// UploadLogo uploads the caller's company logo
func (h *ProfileHandler) UploadLogo(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileID").(string)
	if !ok || profileID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return response.BadRequest(c, "Logo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read logo file")
	}
	defer file.Close()

	url, err := h.profileService.UploadLogo(
		c.Context(),
		profileID,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLogoTooLarge):
			return response.BadRequest(c, "Logo exceeds the 5MB limit")
		case errors.Is(err, domain.ErrLogoUnsupportedType):
			return response.BadRequest(c, "Logo must be a jpeg, png, webp or gif image")
		case errors.Is(err, domain.ErrProfileNotFound):
			return response.NotFound(c, "Profile not found")
		default:
			return response.InternalServerError(c, "Failed to upload logo")
		}
	}

	return response.Success(c, "Logo uploaded successfully", fiber.Map{
		"logo_url": url,
	})
}

// MyCotisations returns the caller's dues history (couronnes page)
func (h *ProfileHandler) MyCotisations(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileID").(string)
	if !ok || profileID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	cotisations, err := h.profileService.ListMyCotisations(c.Context(), profileID)
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve cotisations")
	}

	return response.Success(c, "Cotisations retrieved successfully", fiber.Map{
		"cotisations": cotisations,
	})
}

// Hall returns the directory of active members
func (h *ProfileHandler) Hall(c *fiber.Ctx) error {
	profiles, err := h.profileService.ListHall(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve members")
	}

	return response.Success(c, "Members retrieved successfully", fiber.Map{
		"members": profiles,
	})
}
