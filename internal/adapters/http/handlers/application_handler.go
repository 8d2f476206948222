package handlers

import (
	"errors"
	"strings"

	"guilde-api/internal/core/domain"
	"guilde-api/internal/core/services"
	"guilde-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles the public membership application endpoint
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// ApplyRequest represents a membership application request body
type ApplyRequest struct {
	Email        string `json:"email"`
	CompanyName  string `json:"company_name"`
	ManagerName  string `json:"manager_name"`
	Siret        string `json:"siret"`
	MemberType   string `json:"member_type"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	WebsiteURL   string `json:"website_url"`
	InstagramURL string `json:"instagram_url"`
	TiktokURL    string `json:"tiktok_url"`
	JoinReason   string `json:"join_reason"`
	Sponsor      string `json:"sponsor"`
}

// Apply handles a membership application (postuler)
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.CompanyName == "" {
		return response.BadRequest(c, "Company name is required")
	}

	input := &services.ApplyInput{
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		ManagerName:  strings.TrimSpace(req.ManagerName),
		Siret:        strings.TrimSpace(req.Siret),
		MemberType:   req.MemberType,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		WebsiteURL:   strings.TrimSpace(req.WebsiteURL),
		InstagramURL: strings.TrimSpace(req.InstagramURL),
		TiktokURL:    strings.TrimSpace(req.TiktokURL),
		JoinReason:   req.JoinReason,
		Sponsor:      strings.TrimSpace(req.Sponsor),
	}

	profile, err := h.applicationService.Apply(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyUsed):
			return response.Conflict(c, "This email is already registered")
		case errors.Is(err, domain.ErrInvalidMemberType):
			return response.BadRequest(c, "Invalid member type")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"profile": profile,
	})
}
