package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

const aggregateType = "Note"

// NoteCreated is emitted when a note is created.
type NoteCreated struct {
	sharedDomain.BaseEvent
	NoteID uuid.UUID `json:"note_id"`
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
}

// NewNoteCreated creates a NoteCreated event.
func NewNoteCreated(n *Note) *NoteCreated {
	return &NoteCreated{
		BaseEvent: sharedDomain.NewBaseEvent(n.ID().String(), aggregateType, "notes.note.created"),
		NoteID:    n.ID(),
		UserID:    n.UserID,
		Title:     n.Title,
	}
}
