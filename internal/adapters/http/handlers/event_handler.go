package handlers

import (
	"errors"
	"strconv"

	"guilde-api/internal/core/domain"
	"guilde-api/internal/core/services"
	"guilde-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles calendar and admin event endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Calendar lists published events for members
func (h *EventHandler) Calendar(c *fiber.Ctx) error {
	events, err := h.eventService.ListPublished(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve events")
	}

	return response.Success(c, "Events retrieved successfully", fiber.Map{
		"events": events,
	})
}

// ListAll lists every event including drafts (admin view)
func (h *EventHandler) ListAll(c *fiber.Ctx) error {
	events, err := h.eventService.ListAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve events")
	}

	return response.Success(c, "Events retrieved successfully", fiber.Map{
		"events": events,
	})
}

// CreateEvent creates an event organized by the current admin
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileID").(string)
	if !ok || profileID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.EventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.CreateEvent(c.Context(), profileID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name and date are required")
		case errors.Is(err, services.ErrInvalidEventStatus):
			return response.BadRequest(c, "Invalid event status")
		default:
			return response.InternalServerError(c, "Failed to create event")
		}
	}

	return response.Created(c, "Event created successfully", fiber.Map{
		"event": event,
	})
}

// UpdateEvent updates an event
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req services.EventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.UpdateEvent(c.Context(), uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name and date are required")
		case errors.Is(err, services.ErrInvalidEventStatus):
			return response.BadRequest(c, "Invalid event status")
		default:
			return response.InternalServerError(c, "Failed to update event")
		}
	}

	return response.Success(c, "Event updated successfully", fiber.Map{
		"event": event,
	})
}

// DeleteEvent deletes an event
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.eventService.DeleteEvent(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to delete event")
	}

	return response.Success(c, "Event deleted successfully", nil)
}
