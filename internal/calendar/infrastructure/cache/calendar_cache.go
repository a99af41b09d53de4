// Package cache keeps sync session state in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	calendarApp "github.com/lifedash/lifedash/internal/calendar/application"
)

// CalendarListCache keeps a user's remote calendar list warm between syncs
// so repeated pulls inside one session skip the calendarList round trip.
type CalendarListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCalendarListCache creates a calendar list cache. Pass 0 for ttl to use
// a 15 minute default.
func NewCalendarListCache(client *redis.Client, ttl time.Duration) *CalendarListCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CalendarListCache{client: client, ttl: ttl}
}

func (c *CalendarListCache) key(userID uuid.UUID) string {
	return fmt.Sprintf("calendar:user:%s:calendars", userID)
}

// Get returns the cached calendar list, or (nil, false) on a miss. Cache
// errors are treated as misses so a dead cache never blocks a sync.
func (c *CalendarListCache) Get(ctx context.Context, userID uuid.UUID) ([]calendarApp.RemoteCalendar, bool) {
	val, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var calendars []calendarApp.RemoteCalendar
	if err := json.Unmarshal(val, &calendars); err != nil {
		return nil, false
	}
	return calendars, true
}

// Set stores the calendar list under the configured TTL.
func (c *CalendarListCache) Set(ctx context.Context, userID uuid.UUID, calendars []calendarApp.RemoteCalendar) error {
	val, err := json.Marshal(calendars)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), val, c.ttl).Err()
}

// Invalidate drops the cached list, forcing the next sync to refetch.
func (c *CalendarListCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	err := c.client.Del(ctx, c.key(userID)).Err()
	if err == redis.Nil {
		return nil
	}
	return err
}
