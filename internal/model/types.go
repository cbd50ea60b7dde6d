package model

import "time"

// Category partitions prompts into a closed set of buckets. The filesystem
// backend stores one directory per category; SQL backends index the column.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShared   Category = "shared"
)

// Categories returns every known category in a stable order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryShared}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShared:
		return true
	}
	return false
}

// VariableType is the closed set of types a prompt variable may declare.
type VariableType string

const (
	TypeString  VariableType = "string"
	TypeNumber  VariableType = "number"
	TypeBoolean VariableType = "boolean"
	TypeArray   VariableType = "array"
)

// Valid reports whether t is one of the known variable types.
func (t VariableType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeArray:
		return true
	}
	return false
}

// Variable declares a typed placeholder referenced as {{name}} in prompt content.
type Variable struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Type         VariableType `json:"type"`
	Required     bool         `json:"required"`
	DefaultValue *Value       `json:"defaultValue,omitempty"`
}

// Prompt is an immutable stored template. Mutations go through WithUpdates or
// WithFavorite, which return derived copies; existing references are never
// modified in place.
type Prompt struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Category    Category   `json:"category"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     string     `json:"version"`
	Author      string     `json:"author,omitempty"`
	Variables   []Variable `json:"variables,omitempty"`
	IsFavorite  bool       `json:"isFavorite"`
}

// UsageRecord marks one use of a prompt.
type UsageRecord struct {
	ID     string    `json:"id"`
	UsedAt time.Time `json:"usedAt"`
}

// UsageStats is an externally supplied ranking signal: favorite prompt IDs and
// recently used prompts, most recent first.
type UsageStats struct {
	Favorites []string      `json:"favorites"`
	Recents   []UsageRecord `json:"recents"`
}

// SearchCriteria narrows a prompt search. Every field is optional; set fields
// combine conjunctively. Tags match any. Limit truncates after ranking.
type SearchCriteria struct {
	Query    string   `json:"query,omitempty"`
	Category Category `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Author   string   `json:"author,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// RenderResult carries the rendered text together with advisory validation
// errors. A non-empty Errors list does not prevent rendering.
type RenderResult struct {
	Rendered string   `json:"rendered"`
	Errors   []string `json:"errors"`
}

// CategoryStatistics reports per-category prompt counts, zero-filled for
// categories without records, plus the computed total.
type CategoryStatistics struct {
	Categories map[Category]int `json:"categories"`
	Total      int              `json:"total"`
}

// CreatePromptRequest is the DTO for creating a prompt. ID and timestamps are
// assigned by the service, not the caller.
type CreatePromptRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Category    Category   `json:"category"`
	Tags        []string   `json:"tags,omitempty"`
	Version     string     `json:"version,omitempty"`
	Author      string     `json:"author,omitempty"`
	Variables   []Variable `json:"variables,omitempty"`
}

// PromptUpdate lists the content fields an update may override. Nil fields keep
// the stored value.
type PromptUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Content     *string     `json:"content,omitempty"`
	Category    *Category   `json:"category,omitempty"`
	Tags        *[]string   `json:"tags,omitempty"`
	Version     *string     `json:"version,omitempty"`
	Author      *string     `json:"author,omitempty"`
	Variables   *[]Variable `json:"variables,omitempty"`
}

// UpdatePromptRequest is the DTO for updating a prompt. IsFavorite is applied
// after the content update when set.
type UpdatePromptRequest struct {
	ID         string `json:"id"`
	PromptUpdate
	IsFavorite *bool `json:"isFavorite,omitempty"`
}

// RenderPromptRequest is the DTO for rendering a stored prompt.
type RenderPromptRequest struct {
	ID     string           `json:"id"`
	Values map[string]Value `json:"values"`
}
