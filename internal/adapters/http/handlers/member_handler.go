package handlers

import (
	"errors"
	"strconv"

	"guilde-api/internal/core/domain"
	"guilde-api/internal/core/services"
	"guilde-api/internal/pkg/pagination"
	"guilde-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles the admin member management endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// ListMembers lists member profiles with optional status filter
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	status := c.Query("status")
	if status != "" && !domain.IsValidProfileStatus(status) {
		return response.BadRequest(c, "Invalid status filter")
	}

	result, err := h.memberService.ListMembers(c.Context(), &services.ListMembersInput{
		Status: status,
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve members")
	}

	return response.Success(c, "Members retrieved successfully", result)
}

// GetMember returns a member's profile and the dues record for the
// selected year (?year=, defaults to the current year)
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	id := c.Params("id")
	year, _ := strconv.Atoi(c.Query("year", "0"))

	detail, err := h.memberService.GetMember(c.Context(), id, year)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to retrieve member")
	}

	return response.Success(c, "Member retrieved successfully", detail)
}

// UpdateMember handles the admin edit form submit: profile fields plus
// the dues record for the selected year
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	id := c.Params("id")
	callerID, _ := c.Locals("profileID").(string)

	var req services.UpdateMemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	detail, err := h.memberService.UpdateMember(c.Context(), id, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrSelfDemotion):
			return response.Forbidden(c, "You cannot remove your own admin access")
		case errors.Is(err, domain.ErrInvalidMemberType):
			return response.BadRequest(c, "Invalid member type")
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid profile status")
		case errors.Is(err, domain.ErrInvalidCotisationStatus):
			return response.BadRequest(c, "Invalid cotisation status")
		case errors.Is(err, domain.ErrInvalidYear):
			return response.BadRequest(c, "Invalid cotisation year")
		case errors.Is(err, services.ErrCotisationNotWritten):
			// Profile change went through; dues write did not
			return response.Conflict(c, "Profile saved but the cotisation could not be updated")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, "Member updated successfully", detail)
}

// UploadLogo uploads a member's logo on their behalf
func (h *MemberHandler) UploadLogo(c *fiber.Ctx) error {
	id := c.Params("id")

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return response.BadRequest(c, "Logo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read logo file")
	}
	defer file.Close()

	url, err := h.memberService.UploadLogo(
		c.Context(),
		id,
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
		case errors.Is(err, services.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to upload logo")
		}
	}

	return response.Success(c, "Logo uploaded successfully", fiber.Map{
		"logo_url": url,
	})
}
