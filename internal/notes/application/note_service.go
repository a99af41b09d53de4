// Package application contains the note use cases.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/notes/domain"
	"github.com/lifedash/lifedash/internal/shared/infrastructure/eventbus"
)

// NoteService handles note use cases.
type NoteService struct {
	notes     domain.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewNoteService creates a new NoteService. The publisher is optional.
func NewNoteService(notes domain.Repository, publisher eventbus.Publisher, logger *slog.Logger) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{notes: notes, publisher: publisher, logger: logger}
}

// CreateNote creates and persists a note.
func (s *NoteService) CreateNote(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Note, error) {
	note, err := domain.NewNote(userID, title, body)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	s.publishEvents(ctx, note)
	return note, nil
}

// UpdateNoteCommand carries partial updates for a note. Nil fields stay
// untouched.
type UpdateNoteCommand struct {
	UserID uuid.UUID
	NoteID uuid.UUID
	Title  *string
	Body   *string
}

// UpdateNote applies a partial update to a note.
func (s *NoteService) UpdateNote(ctx context.Context, cmd UpdateNoteCommand) (*domain.Note, error) {
	note, err := s.notes.FindByID(ctx, cmd.UserID, cmd.NoteID)
	if err != nil {
		return nil, err
	}
	if cmd.Title != nil {
		if err := note.Rename(*cmd.Title); err != nil {
			return nil, err
		}
	}
	if cmd.Body != nil {
		note.SetBody(*cmd.Body)
	}
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	return note, nil
}

// GetNote returns a single note.
func (s *NoteService) GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	return s.notes.FindByID(ctx, userID, noteID)
}

// ListNotes returns the user's notes filtered by an optional search query.
func (s *NoteService) ListNotes(ctx context.Context, userID uuid.UUID, query string) ([]*domain.Note, error) {
	notes, err := s.notes.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return notes, nil
	}
	matched := make([]*domain.Note, 0, len(notes))
	for _, n := range notes {
		if n.Matches(query) {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	if _, err := s.notes.FindByID(ctx, userID, noteID); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, userID, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *NoteService) publishEvents(ctx context.Context, note *domain.Note) {
	if s.publisher == nil {
		note.ClearDomainEvents()
		return
	}
	for _, evt := range note.DomainEvents() {
		if err := eventbus.PublishDomainEvent(ctx, s.publisher, evt); err != nil {
			s.logger.Warn("failed to publish domain event",
				"routing_key", evt.RoutingKey(),
				"note_id", note.ID(),
				"error", err,
			)
		}
	}
	note.ClearDomainEvents()
}
