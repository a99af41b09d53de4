// Package domain contains the job application tracking model.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

var (
	ErrEmptyCompany  = errors.New("company cannot be empty")
	ErrEmptyRole     = errors.New("role cannot be empty")
	ErrInvalidStatus = errors.New("invalid application status")
)

// Status is a stage in the application pipeline.
type Status string

const (
	StatusWishlist     Status = "wishlist"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusWithdrawn    Status = "withdrawn"
)

// IsValid reports whether the status is one of the pipeline stages.
func (s Status) IsValid() bool {
	switch s {
	case StatusWishlist, StatusApplied, StatusInterviewing, StatusOffer,
		StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the pipeline.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// transitions maps each stage to the stages reachable from it. Rejected and
// withdrawn can be reached from any open stage.
var transitions = map[Status][]Status{
	StatusWishlist:     {StatusApplied},
	StatusApplied:      {StatusInterviewing},
	StatusInterviewing: {StatusOffer},
	StatusOffer:        {StatusAccepted},
}

// CanTransition reports whether the pipeline allows moving from s to next.
func (s Status) CanTransition(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusRejected || next == StatusWithdrawn {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application tracks one job application through the pipeline.
type Application struct {
	sharedDomain.BaseAggregateRoot
	UserID    uuid.UUID
	Company   string
	Role      string
	Status    Status
	Notes     string
	AppliedOn *time.Time
}

// NewApplication creates a new job application in the wishlist stage.
func NewApplication(userID uuid.UUID, company, role, notes string) (*Application, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, ErrEmptyCompany
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrEmptyRole
	}

	app := &Application{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		UserID:            userID,
		Company:           company,
		Role:              role,
		Status:            StatusWishlist,
		Notes:             notes,
	}
	app.AddDomainEvent(NewApplicationCreated(app))
	return app, nil
}

// RehydrateApplication recreates an application from persisted state.
func RehydrateApplication(
	id, userID uuid.UUID,
	company, role string,
	status Status,
	notes string,
	appliedOn *time.Time,
	createdAt, updatedAt time.Time,
) *Application {
	return &Application{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		UserID:    userID,
		Company:   company,
		Role:      role,
		Status:    status,
		Notes:     notes,
		AppliedOn: appliedOn,
	}
}

// Advance moves the application to the next stage. Moving to applied stamps
// the applied date if not already set.
func (a *Application) Advance(next Status, now time.Time) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !a.Status.CanTransition(next) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidStatus, a.Status, next)
	}

	from := a.Status
	a.Status = next
	if next == StatusApplied && a.AppliedOn == nil {
		applied := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		a.AppliedOn = &applied
	}
	a.Touch()
	a.AddDomainEvent(NewApplicationStatusChanged(a, from))
	return nil
}

// SetNotes replaces the free-form notes.
func (a *Application) SetNotes(notes string) {
	a.Notes = notes
	a.Touch()
}

// IsOpen reports whether the application is still in flight.
func (a *Application) IsOpen() bool {
	return !a.Status.IsTerminal()
}
