// Package service orchestrates prompt use cases over a store.Store. All
// template logic stays on the Prompt entity; all persistence stays in the
// bound store.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/store"
)

// PromptService is bound to one repository implementation. The ID generator
// and clock are injectable for tests.
type PromptService struct {
	store store.Store
	newID func() string
	now   func() time.Time
}

// Option customizes a PromptService.
type Option func(*PromptService)

// WithIDGenerator overrides the ID source.
func WithIDGenerator(gen func() string) Option {
	return func(s *PromptService) { s.newID = gen }
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *PromptService) { s.now = clock }
}

// NewPromptService builds a service over st.
func NewPromptService(st store.Store, opts ...Option) *PromptService {
	s := &PromptService{
		store: st,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePrompt assigns a fresh ID and timestamps, applies defaults and
// persists the new prompt.
func (s *PromptService) CreatePrompt(ctx context.Context, req model.CreatePromptRequest) (*model.Prompt, error) {
	now := s.now()
	p := model.Prompt{
		ID:          s.newID(),
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     req.Version,
		Author:      req.Author,
		Variables:   req.Variables,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Version == "" {
		p.Version = "1.0.0"
	}
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePrompt loads the prompt, derives a copy with the requested field
// overrides and optional favorite flag, and persists it. A missing ID
// surfaces as model.ErrNotFound.
func (s *PromptService) UpdatePrompt(ctx context.Context, req model.UpdatePromptRequest) (*model.Prompt, error) {
	current, err := s.store.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	updated := current.WithUpdates(req.PromptUpdate, s.now())
	if req.IsFavorite != nil {
		updated = updated.WithFavorite(*req.IsFavorite)
	}
	if err := s.store.Save(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePrompt reports false for an unknown ID rather than failing.
func (s *PromptService) DeletePrompt(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

// GetPrompt loads one prompt by ID.
func (s *PromptService) GetPrompt(ctx context.Context, id string) (*model.Prompt, error) {
	return s.store.FindByID(ctx, id)
}

// ListPrompts returns every prompt under the store's ordering rules.
func (s *PromptService) ListPrompts(ctx context.Context) ([]model.Prompt, error) {
	return s.store.FindAll(ctx)
}

// SearchPrompts delegates criteria filtering and ranking to the store.
func (s *PromptService) SearchPrompts(ctx context.Context, c model.SearchCriteria) ([]model.Prompt, error) {
	return s.store.Search(ctx, c)
}

// RenderPrompt renders the stored prompt with the given values. Validation
// errors are advisory: rendering proceeds and the errors ride along in the
// result.
func (s *PromptService) RenderPrompt(ctx context.Context, req model.RenderPromptRequest) (*model.RenderResult, error) {
	p, err := s.store.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	errs := p.ValidateValues(req.Values)
	if errs == nil {
		errs = []string{}
	}
	return &model.RenderResult{
		Rendered: p.Render(req.Values),
		Errors:   errs,
	}, nil
}

// SetFavorite loads the prompt, applies the flag and persists.
func (s *PromptService) SetFavorite(ctx context.Context, id string, fav bool) (*model.Prompt, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := p.WithFavorite(fav)
	if err := s.store.Save(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CategoryStatistics returns the per-category counts plus the computed total.
func (s *PromptService) CategoryStatistics(ctx context.Context) (*model.CategoryStatistics, error) {
	counts, err := s.store.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &model.CategoryStatistics{Categories: counts, Total: total}, nil
}

// ValidatePromptData checks a create/update DTO for structural problems and
// returns human-readable findings. It is advisory and deliberately decoupled
// from CreatePrompt/UpdatePrompt, which do not enforce it.
func (s *PromptService) ValidatePromptData(req model.CreatePromptRequest) []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, "content is required")
	}
	if req.Category != "" && !req.Category.Valid() {
		errs = append(errs, fmt.Sprintf("unknown category %q", req.Category))
	}
	for i, v := range req.Variables {
		if strings.TrimSpace(v.Name) == "" {
			errs = append(errs, fmt.Sprintf("variable %d: name is required", i))
		}
		if strings.TrimSpace(v.Description) == "" {
			errs = append(errs, fmt.Sprintf("variable %q: description is required", v.Name))
		}
		if !v.Type.Valid() {
			errs = append(errs, fmt.Sprintf("variable %q: unknown type %q", v.Name, v.Type))
		}
	}
	return errs
}
