package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/lifedash/internal/goals/domain"
)

var errGoalNotFound = errors.New("not found")

type memoryGoalRepo struct {
	order   []uuid.UUID
	goals   map[uuid.UUID]*domain.Goal
	saveErr error
}

func newMemoryGoalRepo() *memoryGoalRepo {
	return &memoryGoalRepo{goals: make(map[uuid.UUID]*domain.Goal)}
}

func (r *memoryGoalRepo) Save(ctx context.Context, goal *domain.Goal) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.goals[goal.ID()]; !ok {
		r.order = append(r.order, goal.ID())
	}
	r.goals[goal.ID()] = goal
	return nil
}

func (r *memoryGoalRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Goal, error) {
	goal, ok := r.goals[id]
	if !ok || goal.UserID != userID {
		return nil, errGoalNotFound
	}
	return goal, nil
}

func (r *memoryGoalRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	var out []*domain.Goal
	for _, id := range r.order {
		if g := r.goals[id]; g != nil && g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memoryGoalRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	all, _ := r.FindByUser(ctx, userID)
	var out []*domain.Goal
	for _, g := range all {
		if !g.Completed {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memoryGoalRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	delete(r.goals, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func TestCreateGoal(t *testing.T) {
	repo := newMemoryGoalRepo()
	svc := NewGoalService(repo, nil, nil)

	goal, err := svc.CreateGoal(context.Background(), CreateGoalCommand{
		UserID: uuid.New(),
		Title:  "Read books",
		Target: 12,
		Unit:   "books",
	})

	require.NoError(t, err)
	assert.Equal(t, "Read books", goal.Title)
	assert.Empty(t, goal.DomainEvents(), "events are cleared after dispatch")
	assert.Len(t, repo.goals, 1)
}

func TestCreateGoalInvalidTarget(t *testing.T) {
	repo := newMemoryGoalRepo()
	svc := NewGoalService(repo, nil, nil)

	_, err := svc.CreateGoal(context.Background(), CreateGoalCommand{
		UserID: uuid.New(),
		Title:  "Read books",
		Target: 0,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
	assert.Empty(t, repo.goals)
}

func TestAddProgressCompletesGoal(t *testing.T) {
	repo := newMemoryGoalRepo()
	svc := NewGoalService(repo, nil, nil)
	userID := uuid.New()

	created, err := svc.CreateGoal(context.Background(), CreateGoalCommand{
		UserID: userID, Title: "Run km", Target: 10, Unit: "km",
	})
	require.NoError(t, err)

	goal, err := svc.AddProgress(context.Background(), userID, created.ID(), 4)
	require.NoError(t, err)
	assert.False(t, goal.Completed)

	goal, err = svc.AddProgress(context.Background(), userID, created.ID(), 6)
	require.NoError(t, err)
	assert.True(t, goal.Completed)

	_, err = svc.AddProgress(context.Background(), userID, created.ID(), 1)
	assert.ErrorIs(t, err, domain.ErrGoalCompleted)
}

func TestUpdateGoalPartial(t *testing.T) {
	repo := newMemoryGoalRepo()
	svc := NewGoalService(repo, nil, nil)
	userID := uuid.New()
	due := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateGoal(context.Background(), CreateGoalCommand{
		UserID: userID, Title: "Save", Description: "Emergency fund", Target: 5000, Unit: "EUR", DueDate: &due,
	})
	require.NoError(t, err)

	target := 6000.0
	updated, err := svc.UpdateGoal(context.Background(), UpdateGoalCommand{
		UserID: userID,
		GoalID: created.ID(),
		Target: &target,
	})

	require.NoError(t, err)
	assert.Equal(t, float64(6000), updated.TargetValue)
	assert.Equal(t, "Emergency fund", updated.Description, "untouched field keeps its value")
	require.NotNil(t, updated.DueDate)

	updated, err = svc.UpdateGoal(context.Background(), UpdateGoalCommand{
		UserID: userID, GoalID: created.ID(), ClearDue: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestListGoalsOpenOnly(t *testing.T) {
	repo := newMemoryGoalRepo()
	svc := NewGoalService(repo, nil, nil)
	userID := uuid.New()

	done, err := svc.CreateGoal(context.Background(), CreateGoalCommand{UserID: userID, Title: "A", Target: 1})
	require.NoError(t, err)
	_, err = svc.CreateGoal(context.Background(), CreateGoalCommand{UserID: userID, Title: "B", Target: 10})
	require.NoError(t, err)
	_, err = svc.AddProgress(context.Background(), userID, done.ID(), 1)
	require.NoError(t, err)

	all, err := svc.ListGoals(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := svc.ListGoals(context.Background(), userID, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "B", open[0].Title)
}

func TestDeleteGoalWrongUser(t *testing.T) {
	repo := newMemoryGoalRepo()
	svc := NewGoalService(repo, nil, nil)

	goal, err := svc.CreateGoal(context.Background(), CreateGoalCommand{UserID: uuid.New(), Title: "A", Target: 1})
	require.NoError(t, err)

	err = svc.DeleteGoal(context.Background(), uuid.New(), goal.ID())
	assert.Error(t, err)
	assert.Len(t, repo.goals, 1)
}
