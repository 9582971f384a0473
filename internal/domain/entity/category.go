// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the type of category (expense or income).
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// IsValid reports whether the category type is a known value.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// MaxCategoryLevel is the deepest level a category may sit at.
const MaxCategoryLevel = 3

// Category represents a node of the user's income or expense hierarchy.
// Path holds the ids from the root down to this category, inclusive.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	Level     int
	Path      []uuid.UUID
	Type      CategoryType
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewCategory creates a root category when parent is nil, otherwise a child
// that inherits type, level and path from parent.
func NewCategory(userID uuid.UUID, name string, categoryType CategoryType, parent *Category) *Category {
	now := time.Now().UTC()
	c := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      categoryType,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if parent == nil {
		c.Path = []uuid.UUID{c.ID}
		return c
	}

	parentID := parent.ID
	c.ParentID = &parentID
	c.Type = parent.Type
	c.Level = parent.Level + 1
	c.Path = append(append([]uuid.UUID{}, parent.Path...), c.ID)
	return c
}

// PathString renders the materialized path as comma-joined ids.
func (c *Category) PathString() string {
	parts := make([]string, len(c.Path))
	for i, id := range c.Path {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// ParseCategoryPath parses a comma-joined path. Malformed segments are skipped.
func ParseCategoryPath(path string) []uuid.UUID {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, ",")
	ids := make([]uuid.UUID, 0, len(segments))
	for _, s := range segments {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
