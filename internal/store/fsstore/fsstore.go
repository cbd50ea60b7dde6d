// Package fsstore implements the prompt store on a directory tree: one
// subdirectory per category, one JSON file per prompt named after a slug of
// the prompt name.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/rank"
	"github.com/promptvault/promptvault/internal/store"
)

// FsStore keeps the whole store in memory after a lazy one-time load of the
// directory tree. The cache is not safe against another process editing the
// same files; reconciling external mutation is out of scope.
type FsStore struct {
	root  string
	log   zerolog.Logger
	stats *store.StatsCache

	mu      sync.Mutex
	loaded  bool
	prompts map[string]model.Prompt
}

// New builds a filesystem store rooted at dir. Stats may be nil.
func New(dir string, stats store.StatsProvider, log zerolog.Logger) *FsStore {
	return &FsStore{
		root:    dir,
		log:     log,
		stats:   store.NewStatsCache(stats),
		prompts: make(map[string]model.Prompt),
	}
}

var _ store.Store = (*FsStore)(nil)

// load walks every category directory once and caches all parseable prompt
// files. Corrupt files are skipped with a warning, never fatal.
func (s *FsStore) load() error {
	if s.loaded {
		return nil
	}
	for _, cat := range model.Categories() {
		dir := filepath.Join(s.root, string(cat))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("load failed for category %s: %w", cat, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				s.log.Warn().Err(err).Str("file", path).Msg("skipping unreadable prompt file")
				continue
			}
			var p model.Prompt
			if err := json.Unmarshal(data, &p); err != nil {
				s.log.Warn().Err(err).Str("file", path).Msg("skipping corrupt prompt file")
				continue
			}
			s.prompts[p.ID] = p
		}
	}
	s.loaded = true
	return nil
}

func (s *FsStore) FindByID(ctx context.Context, id string) (*model.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	p, ok := s.prompts[id]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %s", model.ErrNotFound, id)
	}
	return &p, nil
}

func (s *FsStore) FindAll(ctx context.Context) ([]model.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	out := s.snapshot(nil)
	rank.SortByUsage(out, s.stats.Stats(), time.Now().UTC())
	return out, nil
}

// Search gates inclusion on substring containment and orders matches by
// fuzzy score plus usage score descending, UpdatedAt descending as tie-break.
func (s *FsStore) Search(ctx context.Context, c model.SearchCriteria) ([]model.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	out := s.snapshot(func(p *model.Prompt) bool { return matchesCriteria(p, c) })

	stats := s.stats.Stats()
	now := time.Now().UTC()
	if c.Query != "" {
		scores := make(map[string]float64, len(out))
		for i := range out {
			scores[out[i].ID] = rank.FuzzyScore(&out[i], c.Query) + rank.UsageScore(out[i].ID, stats, now)
		}
		sort.SliceStable(out, func(i, j int) bool {
			si, sj := scores[out[i].ID], scores[out[j].ID]
			if si != sj {
				return si > sj
			}
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	} else {
		rank.SortByUsage(out, stats, now)
	}

	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out, nil
}

// Save upserts the prompt and writes its JSON file under the category
// directory. The filename derives from the current name, so renaming a prompt
// leaves the previous file behind.
func (s *FsStore) Save(ctx context.Context, p model.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	dir := filepath.Join(s.root, string(p.Category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
	}
	if err := os.WriteFile(filepath.Join(dir, slugify(p.Name)+".json"), data, 0o644); err != nil {
		return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
	}
	s.prompts[p.ID] = p
	return nil
}

// Delete removes the cached record and the file computed from the current
// name. A prior rename may therefore orphan the old file; see the package
// docs for the accepted behavior.
func (s *FsStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}
	p, ok := s.prompts[id]
	if !ok {
		return false, nil
	}
	path := filepath.Join(s.root, string(p.Category), slugify(p.Name)+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("delete failed for prompt %s: %w", id, err)
	}
	delete(s.prompts, id)
	return true, nil
}

func (s *FsStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}
	_, ok := s.prompts[id]
	return ok, nil
}

func (s *FsStore) FindByCategory(ctx context.Context, c model.Category) ([]model.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	out := s.snapshot(func(p *model.Prompt) bool { return p.Category == c })
	rank.SortByUsage(out, s.stats.Stats(), time.Now().UTC())
	return out, nil
}

func (s *FsStore) FindByTags(ctx context.Context, tags []string) ([]model.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	out := s.snapshot(func(p *model.Prompt) bool { return hasAnyTag(p, tags) })
	rank.SortByUsage(out, s.stats.Stats(), time.Now().UTC())
	return out, nil
}

// HealthPing verifies the root directory is usable.
func (s *FsStore) HealthPing(ctx context.Context) error {
	return os.MkdirAll(s.root, 0o755)
}

func (s *FsStore) CountByCategory(ctx context.Context) (map[model.Category]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	counts := make(map[model.Category]int, len(model.Categories()))
	for _, c := range model.Categories() {
		counts[c] = 0
	}
	for _, p := range s.prompts {
		counts[p.Category]++
	}
	return counts, nil
}

// snapshot copies matching prompts out of the cache. Callers hold s.mu.
func (s *FsStore) snapshot(keep func(*model.Prompt) bool) []model.Prompt {
	out := make([]model.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		if keep == nil || keep(&p) {
			out = append(out, p)
		}
	}
	return out
}

func matchesCriteria(p *model.Prompt, c model.SearchCriteria) bool {
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if len(c.Tags) > 0 && !hasAnyTag(p, c.Tags) {
		return false
	}
	if c.Author != "" && !strings.Contains(strings.ToLower(p.Author), strings.ToLower(c.Author)) {
		return false
	}
	if c.Query != "" && !rank.MatchesQuery(p, c.Query) {
		return false
	}
	return true
}

func hasAnyTag(p *model.Prompt, tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

var slugRx = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the name and collapses everything else to hyphens.
func slugify(name string) string {
	s := slugRx.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
