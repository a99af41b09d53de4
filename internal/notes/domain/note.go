// Package domain contains the note model.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/lifedash/lifedash/internal/shared/domain"
)

// ErrEmptyNoteTitle is returned when a note has no title.
var ErrEmptyNoteTitle = errors.New("note title cannot be empty")

// Note is a free-form text note.
type Note struct {
	sharedDomain.BaseAggregateRoot
	UserID uuid.UUID
	Title  string
	Body   string
}

// NewNote creates a new note.
func NewNote(userID uuid.UUID, title, body string) (*Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyNoteTitle
	}
	note := &Note{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		UserID:            userID,
		Title:             title,
		Body:              body,
	}
	note.AddDomainEvent(NewNoteCreated(note))
	return note, nil
}

// RehydrateNote recreates a note from persisted state.
func RehydrateNote(id, userID uuid.UUID, title, body string, createdAt, updatedAt time.Time) *Note {
	return &Note{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		UserID: userID,
		Title:  title,
		Body:   body,
	}
}

// Rename changes the note's title.
func (n *Note) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyNoteTitle
	}
	n.Title = title
	n.Touch()
	return nil
}

// SetBody replaces the note's body.
func (n *Note) SetBody(body string) {
	n.Body = body
	n.Touch()
}

// Matches reports whether the query appears in the title or body,
// case-insensitively. An empty query matches everything.
func (n *Note) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), query) ||
		strings.Contains(strings.ToLower(n.Body), query)
}
