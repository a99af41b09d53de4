package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

const aggregateType = "JobApplication"

// ApplicationCreated is emitted when an application is created.
type ApplicationCreated struct {
	sharedDomain.BaseEvent
	ApplicationID uuid.UUID `json:"application_id"`
	UserID        uuid.UUID `json:"user_id"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
}

// NewApplicationCreated creates an ApplicationCreated event.
func NewApplicationCreated(a *Application) *ApplicationCreated {
	return &ApplicationCreated{
		BaseEvent:     sharedDomain.NewBaseEvent(a.ID().String(), aggregateType, "jobs.application.created"),
		ApplicationID: a.ID(),
		UserID:        a.UserID,
		Company:       a.Company,
		Role:          a.Role,
	}
}

// ApplicationStatusChanged is emitted on every pipeline transition.
type ApplicationStatusChanged struct {
	sharedDomain.BaseEvent
	ApplicationID uuid.UUID `json:"application_id"`
	UserID        uuid.UUID `json:"user_id"`
	From          Status    `json:"from"`
	To            Status    `json:"to"`
}

// NewApplicationStatusChanged creates an ApplicationStatusChanged event.
func NewApplicationStatusChanged(a *Application, from Status) *ApplicationStatusChanged {
	return &ApplicationStatusChanged{
		BaseEvent:     sharedDomain.NewBaseEvent(a.ID().String(), aggregateType, "jobs.application.status_changed"),
		ApplicationID: a.ID(),
		UserID:        a.UserID,
		From:          from,
		To:            a.Status,
	}
}
