package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyCategoryName rejects blank category names.
var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// ColorKind distinguishes the two shapes a category color can take.
type ColorKind string

const (
	// ColorClass is a CSS class token resolved by the front-end theme
	// (local categories).
	ColorClass ColorKind = "class"
	// ColorLiteral is a literal color value supplied by the provider
	// (synthetic remote-calendar categories).
	ColorLiteral ColorKind = "literal"
)

// Color is a tagged display value. Callers must treat it as opaque and
// resolve it by kind at the render boundary; it is never parsed.
type Color struct {
	Kind  ColorKind `json:"kind"`
	Value string    `json:"value"`
}

// ClassColor builds a CSS-class-token color.
func ClassColor(token string) Color {
	return Color{Kind: ColorClass, Value: token}
}

// LiteralColor builds a literal color value.
func LiteralColor(value string) Color {
	return Color{Kind: ColorLiteral, Value: value}
}

// Display returns the raw display string.
func (c Color) Display() string { return c.Value }

// Category is a named, colored, visibility-toggleable tag attached to
// events. Events embed only the category id; visibility and appearance are
// looked up live in the registry at each projection.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     Color  `json:"color"`
	IsVisible bool   `json:"is_visible"`
}

// NewCategory creates a user-defined category.
func NewCategory(name string, color Color) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyCategoryName
	}
	return Category{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		IsVisible: true,
	}, nil
}

// DefaultCategories returns the six categories seeded on first use when the
// store holds none.
func DefaultCategories() []Category {
	defaults := []struct {
		id   string
		name string
	}{
		{"work", "Work"},
		{"personal", "Personal"},
		{"health", "Health"},
		{"study", "Study"},
		{"social", "Social"},
		{"travel", "Travel"},
	}
	categories := make([]Category, 0, len(defaults))
	for _, d := range defaults {
		categories = append(categories, Category{
			ID:        d.id,
			Name:      d.name,
			Color:     ClassColor("category-" + d.id),
			IsVisible: true,
		})
	}
	return categories
}

// SyntheticCalendarCategory surfaces a provider calendar as a category for
// filtering and coloring. Synthetic categories are never persisted.
func SyntheticCalendarCategory(calendarID, name, backgroundColor string) Category {
	color := LiteralColor(backgroundColor)
	if backgroundColor == "" {
		color = ClassColor("category-remote")
	}
	return Category{
		ID:        RemoteIDPrefix + calendarID,
		Name:      name,
		Color:     color,
		IsVisible: true,
	}
}

// CategorySet indexes categories by id for projection lookups.
type CategorySet map[string]Category

// NewCategorySet builds a CategorySet from a list.
func NewCategorySet(categories []Category) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c.ID] = c
	}
	return set
}

// VisibleFor reports whether events with the given category id should be
// shown. Unknown ids render with default appearance and stay visible.
func (s CategorySet) VisibleFor(categoryID string) bool {
	c, ok := s[categoryID]
	if !ok {
		return true
	}
	return c.IsVisible
}

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	// FindByUser returns all stored categories for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Category, error)

	// Save upserts a single category record.
	Save(ctx context.Context, userID uuid.UUID, category Category) error

	// SaveAll upserts a batch of categories (used for seeding defaults).
	SaveAll(ctx context.Context, userID uuid.UUID, categories []Category) error
}
