package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/lifedash/internal/notes/domain"
)

var errNoteNotFound = errors.New("not found")

type memoryNoteRepo struct {
	order []uuid.UUID
	notes map[uuid.UUID]*domain.Note
}

func newMemoryNoteRepo() *memoryNoteRepo {
	return &memoryNoteRepo{notes: make(map[uuid.UUID]*domain.Note)}
}

func (r *memoryNoteRepo) Save(ctx context.Context, note *domain.Note) error {
	if _, ok := r.notes[note.ID()]; !ok {
		r.order = append(r.order, note.ID())
	}
	r.notes[note.ID()] = note
	return nil
}

func (r *memoryNoteRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Note, error) {
	note, ok := r.notes[id]
	if !ok || note.UserID != userID {
		return nil, errNoteNotFound
	}
	return note, nil
}

func (r *memoryNoteRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, id := range r.order {
		if n := r.notes[id]; n != nil && n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memoryNoteRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	delete(r.notes, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func TestCreateNote(t *testing.T) {
	repo := newMemoryNoteRepo()
	svc := NewNoteService(repo, nil, nil)

	note, err := svc.CreateNote(context.Background(), uuid.New(), "Meeting notes", "Roadmap")

	require.NoError(t, err)
	assert.Equal(t, "Meeting notes", note.Title)
	assert.Empty(t, note.DomainEvents(), "events are cleared after dispatch")
}

func TestCreateNoteEmptyTitle(t *testing.T) {
	repo := newMemoryNoteRepo()
	svc := NewNoteService(repo, nil, nil)

	_, err := svc.CreateNote(context.Background(), uuid.New(), "  ", "body")

	assert.ErrorIs(t, err, domain.ErrEmptyNoteTitle)
	assert.Empty(t, repo.notes)
}

func TestUpdateNotePartial(t *testing.T) {
	repo := newMemoryNoteRepo()
	svc := NewNoteService(repo, nil, nil)
	userID := uuid.New()

	created, err := svc.CreateNote(context.Background(), userID, "Title", "Original body")
	require.NoError(t, err)

	body := "Updated body"
	updated, err := svc.UpdateNote(context.Background(), UpdateNoteCommand{
		UserID: userID,
		NoteID: created.ID(),
		Body:   &body,
	})

	require.NoError(t, err)
	assert.Equal(t, "Title", updated.Title, "untouched field keeps its value")
	assert.Equal(t, "Updated body", updated.Body)
}

func TestListNotesSearch(t *testing.T) {
	repo := newMemoryNoteRepo()
	svc := NewNoteService(repo, nil, nil)
	userID := uuid.New()

	_, err := svc.CreateNote(context.Background(), userID, "Grocery list", "Milk, eggs")
	require.NoError(t, err)
	_, err = svc.CreateNote(context.Background(), userID, "Meeting notes", "Roadmap")
	require.NoError(t, err)

	all, err := svc.ListNotes(context.Background(), userID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := svc.ListNotes(context.Background(), userID, "roadmap")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Meeting notes", matched[0].Title)
}

func TestDeleteNote(t *testing.T) {
	repo := newMemoryNoteRepo()
	svc := NewNoteService(repo, nil, nil)
	userID := uuid.New()

	note, err := svc.CreateNote(context.Background(), userID, "Title", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(context.Background(), userID, note.ID()))
	_, err = svc.GetNote(context.Background(), userID, note.ID())
	assert.Error(t, err)

	err = svc.DeleteNote(context.Background(), uuid.New(), note.ID())
	assert.Error(t, err, "wrong user cannot delete")
}
