package gitrepos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/sha1n/mcp-symctx-server/internal/config"
	"github.com/sha1n/mcp-symctx-server/internal/domain"
	"github.com/sha1n/mcp-symctx-server/internal/gitstore"
	"github.com/sha1n/mcp-symctx-server/internal/grammar"
	"github.com/sha1n/mcp-symctx-server/internal/resolve"
	"github.com/sha1n/mcp-symctx-server/internal/symbols"
	"github.com/sha1n/mcp-symctx-server/internal/textrange"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotReady indicates no location has been indexed yet
	ErrNotReady = errors.New("no repository has been indexed")

	// ErrEmptyQuery indicates a blank search query
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrUnknownLanguage indicates a language name with no grammar
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrFileTooLarge indicates a file above the configured size limit
	ErrFileTooLarge = errors.New("file too large")
)

// DefaultLanguage is used when a request names no language and its URI has
// no recognized extension.
var DefaultLanguage = grammar.TypeScript

// snapshot is an immutable index of one revision of one location.
type snapshot struct {
	location string
	store    *gitstore.Store
	revision gitstore.Revision
	index    *symbols.Index
	search   bleve.Index
	builtAt  time.Time
}

// ContextRequest is a context-at-position request as received from clients.
type ContextRequest struct {
	Location string
	URI      string
	Language string
	Content  string
	Position textrange.Position
	MaxDepth *int
}

// FileContent is a file read from an indexed revision.
type FileContent struct {
	Location string
	Path     string
	Commit   string
	Content  string
}

// Service coordinates revision tracking, indexing, resolution and search.
type Service struct {
	settings   *config.ContextSettings
	symbolizer *grammar.Symbolizer
	filter     *symbols.FileFilter
	state      *StateTable

	mu        sync.RWMutex
	snapshots map[string]*snapshot
	active    string

	buildMu    sync.Mutex
	buildLocks map[string]*sync.Mutex
}

// NewService creates a new service. Grammar queries are compiled eagerly so
// that a broken query fails startup rather than the first request.
func NewService(settings *config.ContextSettings) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if err := grammar.ValidateAll(); err != nil {
		return nil, fmt.Errorf("failed to compile grammar queries: %w", err)
	}

	return &Service{
		settings:   settings,
		symbolizer: grammar.NewSymbolizer(),
		filter:     newFileFilter(settings),
		state:      NewStateTable(),
		snapshots:  make(map[string]*snapshot),
		buildLocks: make(map[string]*sync.Mutex),
	}, nil
}

// newFileFilter excludes only the configured patterns unless the default
// exclusions are switched on.
func newFileFilter(settings *config.ContextSettings) *symbols.FileFilter {
	if settings.DefaultExcludes {
		return symbols.NewDefaultFileFilter(settings.MaxFileSize, settings.ExcludePatterns...)
	}
	return symbols.NewFileFilter(settings.MaxFileSize, settings.ExcludePatterns...)
}

// RevisionDidChange rebuilds the index of a location at the configured
// revision and makes it the active location. On failure the previously
// installed index, if any, keeps serving requests.
func (s *Service) RevisionDidChange(ctx context.Context, location string) (RepoState, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return RepoState{}, err
	}
	state, err := s.rebuild(ctx, loc, true)
	if err != nil {
		return state, err
	}
	s.activate(loc)
	state.Active = true
	return state, nil
}

// Sync rebuilds the index of a location only if its revision now resolves to
// a different commit than the installed index.
func (s *Service) Sync(ctx context.Context, location string) (RepoState, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return RepoState{}, err
	}
	return s.rebuild(ctx, loc, false)
}

// IndexAll builds every location with bounded parallelism. The first
// location that builds successfully becomes active if none is yet.
func (s *Service) IndexAll(ctx context.Context, locations []string) error {
	if len(locations) == 0 {
		return nil
	}

	limit := s.settings.MaxParallelBuilds
	if limit <= 0 {
		limit = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)

	parsed := make([]string, len(locations))
	errs := make([]error, len(locations))
	for i, raw := range locations {
		g.Go(func() error {
			loc, err := ParseLocation(raw)
			if err != nil {
				errs[i] = err
				return nil
			}
			parsed[i] = loc
			if _, err := s.rebuild(ctx, loc, true); err != nil {
				errs[i] = fmt.Errorf("index %s: %w", loc, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, loc := range parsed {
		if errs[i] == nil && loc != "" {
			s.mu.RLock()
			hasActive := s.active != ""
			s.mu.RUnlock()
			if !hasActive {
				s.activate(loc)
			}
			break
		}
	}

	var failed []error
	for i, err := range errs {
		if err != nil {
			slog.Error("Failed to index repository", "location", locations[i], "error", err)
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d repository index build(s) failed: %w", len(failed), errors.Join(failed...))
	}
	return nil
}

// buildLock returns the mutex serializing builds of one location.
func (s *Service) buildLock(location string) *sync.Mutex {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	lock, ok := s.buildLocks[location]
	if !ok {
		lock = &sync.Mutex{}
		s.buildLocks[location] = lock
	}
	return lock
}

func (s *Service) rebuild(ctx context.Context, location string, force bool) (RepoState, error) {
	lock := s.buildLock(location)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.build(ctx, location, force)
	if err != nil {
		slog.Error("Index build failed", "location", location, "error", err)
		s.state.SetError(location, err.Error())
		state, _ := s.state.Get(location)
		return state, err
	}
	if snap == nil {
		slog.Debug("Repository already up to date", "location", location)
		state, _ := s.state.Get(location)
		return state, nil
	}

	s.install(snap)
	state := stateOf(snap)
	s.mu.RLock()
	state.Active = s.active == location
	s.mu.RUnlock()
	s.state.Set(state)
	return state, nil
}

// build indexes location at the configured revision. It returns nil without
// error when force is false and the installed snapshot is current.
func (s *Service) build(ctx context.Context, location string, force bool) (*snapshot, error) {
	store, err := gitstore.Open(location, s.settings.BlobCacheSize)
	if err != nil {
		return nil, err
	}
	rev, err := store.Resolve(s.settings.Revision)
	if err != nil {
		return nil, err
	}

	if !force {
		if cur := s.snapshot(location); cur != nil && cur.revision.Commit == rev.Commit {
			return nil, nil
		}
	}

	slog.Info("Indexing repository", "location", location, "revision", rev.Name, "commit", rev.Commit.String())
	idx, err := symbols.Build(ctx, store.Tree(rev), store, s.symbolizer, s.filter)
	if err != nil {
		return nil, err
	}
	search, err := buildSearchIndex(ctx, location, idx)
	if err != nil {
		return nil, err
	}

	stats := idx.Stats()
	slog.Info("Index complete",
		"location", location,
		"commit", rev.Commit.String(),
		"files", stats.FilesIndexed,
		"definitions", stats.Definitions,
		"skipped", stats.SkippedTotal(),
		"bytes", stats.HumanBytes(),
		"duration", stats.Duration)

	return &snapshot{
		location: location,
		store:    store,
		revision: rev,
		index:    idx,
		search:   search,
		builtAt:  time.Now(),
	}, nil
}

// install replaces the snapshot of a location. Searches hold the read lock
// for their whole duration, so the previous search index is unused once the
// write lock is held.
func (s *Service) install(snap *snapshot) {
	s.mu.Lock()
	old := s.snapshots[snap.location]
	s.snapshots[snap.location] = snap
	if old != nil && old.search != nil {
		if err := old.search.Close(); err != nil {
			slog.Warn("Failed to close search index", "location", snap.location, "error", err)
		}
	}
	s.mu.Unlock()
}

func (s *Service) activate(location string) {
	s.mu.Lock()
	s.active = location
	s.mu.Unlock()
	s.state.SetActive(location)
}

func (s *Service) snapshot(location string) *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[location]
}

// lookup returns the snapshot for an explicit location, or the active one
// when location is empty. A nil snapshot with no error means nothing is
// active.
func (s *Service) lookup(location string) (*snapshot, error) {
	if location == "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.active == "" {
			return nil, nil
		}
		return s.snapshots[s.active], nil
	}

	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot(loc)
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
	}
	return snap, nil
}

// ActiveLocation returns the active location, or "" if none.
func (s *Service) ActiveLocation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ContextAtPosition resolves the definitions reachable from the cursor in
// the request content. With no active location the response is empty.
func (s *Service) ContextAtPosition(ctx context.Context, req ContextRequest) (domain.ContextAtPositionResponse, error) {
	if req.Position.Line < 0 || req.Position.Character < 0 {
		return domain.ContextAtPositionResponse{}, fmt.Errorf("%w: position %s", domain.ErrOutOfBounds, req.Position)
	}

	lang, err := requestLanguage(req.Language, req.URI)
	if err != nil {
		return domain.ContextAtPositionResponse{}, err
	}

	snap, err := s.lookup(req.Location)
	if err != nil {
		return domain.ContextAtPositionResponse{}, err
	}
	if snap == nil {
		return domain.NewContextAtPositionResponse(nil), nil
	}

	maxDepth := s.settings.MaxDepth
	if req.MaxDepth != nil {
		maxDepth = *req.MaxDepth
	}

	snippets, err := resolve.ContextAtPosition(ctx, snap.index, snap.store, resolve.Request{
		Language: lang,
		Content:  req.Content,
		Position: req.Position,
		MaxDepth: maxDepth,
	})
	if err != nil {
		return domain.ContextAtPositionResponse{}, err
	}
	return domain.NewContextAtPositionResponse(snippets), nil
}

// requestLanguage picks the language from an explicit name, then from the
// document URI extension, then DefaultLanguage.
func requestLanguage(name, uri string) (*grammar.Language, error) {
	if strings.TrimSpace(name) != "" {
		lang, ok := grammar.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownLanguage, name, supportedLanguages())
		}
		return lang, nil
	}
	if uri != "" {
		if lang, ok := grammar.ForPath(uri); ok {
			return lang, nil
		}
	}
	return DefaultLanguage, nil
}

// supportedLanguages lists each language with its extensions, e.g.
// "go (.go), python (.py .pyi)".
func supportedLanguages() string {
	parts := make([]string, 0, len(grammar.All()))
	for _, lang := range grammar.All() {
		parts = append(parts, fmt.Sprintf("%s (%s)", lang.Name(), strings.Join(lang.Extensions(), " ")))
	}
	return strings.Join(parts, ", ")
}

// SearchSymbols searches definitions by name across indexed locations, or
// within opts.Location when set.
func (s *Service) SearchSymbols(ctx context.Context, query string, opts SearchOptions) ([]SymbolHit, uint64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, ErrEmptyQuery
	}
	if opts.Limit <= 0 {
		opts.Limit = s.settings.MaxResults
	}
	if opts.Language != "" {
		lang, ok := grammar.ByName(opts.Language)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownLanguage, opts.Language, supportedLanguages())
		}
		opts.Language = lang.Name()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return nil, 0, ErrNotReady
	}

	if opts.Location != "" {
		loc, err := ParseLocation(opts.Location)
		if err != nil {
			return nil, 0, err
		}
		snap, ok := s.snapshots[loc]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
		}
		opts.Location = loc
		return searchSymbols(ctx, snap.search, query, opts)
	}

	indexes := make([]bleve.Index, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		indexes = append(indexes, snap.search)
	}
	return searchSymbols(ctx, bleve.NewIndexAlias(indexes...), query, opts)
}

// ReadFile reads a file from the indexed revision of a location.
func (s *Service) ReadFile(location, path string) (FileContent, error) {
	if strings.TrimSpace(path) == "" {
		return FileContent{}, fmt.Errorf("path cannot be empty")
	}
	if err := validatePath(path); err != nil {
		return FileContent{}, err
	}

	snap, err := s.lookup(location)
	if err != nil {
		return FileContent{}, err
	}
	if snap == nil {
		return FileContent{}, ErrNotReady
	}

	cleaned := filepath.ToSlash(filepath.Clean(path))
	text, err := snap.store.ReadPath(snap.revision, cleaned)
	if err != nil {
		return FileContent{}, err
	}
	if limit := s.settings.MaxFileSize; limit > 0 && int64(len(text)) > limit {
		return FileContent{}, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, cleaned, len(text), limit)
	}

	return FileContent{
		Location: snap.location,
		Path:     cleaned,
		Commit:   snap.revision.Commit.String(),
		Content:  text,
	}, nil
}

// Status returns the state of every known location.
func (s *Service) Status() []RepoState {
	return s.state.List()
}

// Errors returns the last build error of every failing location.
func (s *Service) Errors() map[string]string {
	return s.state.Errors()
}

// Close releases all resources.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for loc, snap := range s.snapshots {
		if snap.search != nil {
			if err := snap.search.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close search index for %s: %w", loc, err))
			}
		}
	}
	s.snapshots = make(map[string]*snapshot)
	s.active = ""
	return errors.Join(errs...)
}

func stateOf(snap *snapshot) RepoState {
	stats := snap.index.Stats()
	skipped := make(map[string]int, len(stats.Skipped))
	for reason, n := range stats.Skipped {
		skipped[string(reason)] = n
	}
	return RepoState{
		Location:     snap.location,
		Revision:     snap.revision.Name,
		Commit:       snap.revision.Commit.String(),
		BuiltAt:      snap.builtAt,
		FilesIndexed: stats.FilesIndexed,
		Definitions:  stats.Definitions,
		Names:        snap.index.Names(),
		Bytes:        stats.HumanBytes(),
		Skipped:      skipped,
		Duration:     stats.Duration.String(),
	}
}
