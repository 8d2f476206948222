package services

import (
	"context"
	"errors"
	"log"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/core/domain"

	"gorm.io/gorm"
)

// Event service errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidEventStatus = errors.New("invalid event status")
)

// EventService handles association events (calendar and admin CRUD)
type EventService struct {
	eventRepo repositories.EventRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repositories.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// EventInput represents event create/update input
type EventInput struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
}

func (in *EventInput) validate() error {
	if in.Name == "" || in.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	switch domain.EventStatus(in.Status) {
	case domain.EventDraft, domain.EventPublished:
		return nil
	}
	return ErrInvalidEventStatus
}

// ListPublished returns published events for the member calendar,
// soonest first
func (s *EventService) ListPublished(ctx context.Context) ([]*models.EventResponse, error) {
	events, err := s.eventRepo.List(ctx, string(domain.EventPublished))
	if err != nil {
		return nil, err
	}
	return toEventResponses(events), nil
}

// ListAll returns all events regardless of status (admin view)
func (s *EventService) ListAll(ctx context.Context) ([]*models.EventResponse, error) {
	events, err := s.eventRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return toEventResponses(events), nil
}

// CreateEvent creates an event organized by the given profile
func (s *EventService) CreateEvent(ctx context.Context, organizerID string, input *EventInput) (*models.EventResponse, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:        input.Name,
		Date:        input.Date,
		Type:        input.Type,
		Description: nullable(input.Description),
		Location:    nullable(input.Location),
		Status:      input.Status,
		OrganizerID: organizerID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ Event created: %s (%s)", event.Name, event.Status)
	return event.ToResponse(), nil
}

// UpdateEvent updates an existing event
func (s *EventService) UpdateEvent(ctx context.Context, id uint, input *EventInput) (*models.EventResponse, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	event.Name = input.Name
	event.Date = input.Date
	event.Type = input.Type
	event.Description = nullable(input.Description)
	event.Location = nullable(input.Location)
	event.Status = input.Status
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event.ToResponse(), nil
}

// DeleteEvent soft-deletes an event
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}

func toEventResponses(events []*models.Event) []*models.EventResponse {
	out := make([]*models.EventResponse, len(events))
	for i, e := range events {
		out[i] = e.ToResponse()
	}
	return out
}
