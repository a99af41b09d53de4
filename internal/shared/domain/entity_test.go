package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.ID())
	assert.False(t, e.CreatedAt().IsZero())
	assert.Equal(t, e.CreatedAt(), e.UpdatedAt())
}

func TestTouchAdvancesUpdatedAt(t *testing.T) {
	e := NewBaseEntity()
	before := e.UpdatedAt()

	time.Sleep(time.Millisecond)
	e.Touch()

	assert.True(t, e.UpdatedAt().After(before))
	assert.Equal(t, e.CreatedAt(), e.CreatedAt())
}

func TestEquals(t *testing.T) {
	a := NewBaseEntity()
	b := NewBaseEntity()

	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(b))
	assert.False(t, a.Equals(nil))
}

func TestRehydrateBaseEntity(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	e := RehydrateBaseEntity(id, created, updated)

	assert.Equal(t, id, e.ID())
	assert.Equal(t, created, e.CreatedAt())
	assert.Equal(t, updated, e.UpdatedAt())
}

func TestAggregateDomainEvents(t *testing.T) {
	a := NewBaseAggregateRoot()
	assert.Empty(t, a.DomainEvents())

	a.AddDomainEvent(NewBaseEvent("evt-1", "test", "test.created"))
	assert.Len(t, a.DomainEvents(), 1)

	a.ClearDomainEvents()
	assert.Empty(t, a.DomainEvents())
}

func TestAggregateVersion(t *testing.T) {
	a := NewBaseAggregateRoot()
	assert.Equal(t, 0, a.Version())

	a.IncrementVersion()
	assert.Equal(t, 1, a.Version())
}

func TestBaseEventFields(t *testing.T) {
	evt := NewBaseEvent("google_abc", "calendar_event", "calendar.event.created")

	assert.NotEqual(t, uuid.Nil, evt.EventID())
	assert.Equal(t, "google_abc", evt.AggregateID())
	assert.Equal(t, "calendar_event", evt.AggregateType())
	assert.Equal(t, "calendar.event.created", evt.RoutingKey())
	assert.False(t, evt.OccurredAt().IsZero())
}
