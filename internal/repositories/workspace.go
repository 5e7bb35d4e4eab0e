package repositories

import (
	"context"
	"github.com/google/uuid"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/slideshow"
	"log/slog"
	"sync"
	"time"
)

var ErrWorkspaceNotFound = errors.NewSentinel("workspace not found")

type workspace struct {
	controller *slideshow.Controller
	lastSeen   time.Time
}

// WorkspaceRepository keeps one slideshow controller per browser session in memory.
//
// Workspaces hold uploaded photos and live only as long as the process. The session cookie carries the
// workspace ID so that caption generation can keep running after the request that started it returns.
type WorkspaceRepository struct {
	mu            sync.Mutex
	workspaces    map[string]*workspace
	newController func() *slideshow.Controller
	now           func() time.Time
	logger        *slog.Logger
}

func NewWorkspaceRepository(newController func() *slideshow.Controller, logger *slog.Logger) *WorkspaceRepository {
	return &WorkspaceRepository{ //nolint:exhaustruct // mu zero value is ready to use
		workspaces:    map[string]*workspace{},
		newController: newController,
		now:           time.Now,
		logger:        logger.With("source", "WorkspaceRepository"),
	}
}

// Create starts a fresh workspace and returns its ID.
func (r *WorkspaceRepository) Create(ctx context.Context) (string, *slideshow.Controller) {
	id := uuid.NewString()
	controller := r.newController()

	r.mu.Lock()
	r.workspaces[id] = &workspace{controller: controller, lastSeen: r.now()}
	count := len(r.workspaces)
	r.mu.Unlock()

	r.logger.LogAttrs(ctx, slog.LevelDebug, "created workspace",
		slog.String("workspace_id", id), slog.Int("workspaces", count))
	return id, controller
}

// Get returns the workspace with id and marks it as recently used.
func (r *WorkspaceRepository) Get(id string) (*slideshow.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[id]
	if !ok {
		return nil, errors.Wrap(ErrWorkspaceNotFound, "get workspace", slog.String("workspace_id", id))
	}
	w.lastSeen = r.now()
	return w.controller, nil
}

// GetOrCreate returns the workspace with id or a new one when id is unknown, e.g. after a restart.
func (r *WorkspaceRepository) GetOrCreate(ctx context.Context, id string) (string, *slideshow.Controller) {
	if id != "" {
		if controller, err := r.Get(id); err == nil {
			return id, controller
		}
	}
	return r.Create(ctx)
}

// Prune drops workspaces that have not been used for maxIdle and returns how many were dropped.
// Workspaces that are generating captions are kept.
func (r *WorkspaceRepository) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	pruned := 0
	for id, w := range r.workspaces {
		if !w.lastSeen.Before(cutoff) {
			continue
		}
		if _, generating := w.controller.Snapshot().View.(slideshow.Generating); generating {
			continue
		}
		delete(r.workspaces, id)
		pruned++
	}
	return pruned
}

// StartPruner calls Prune every interval until ctx is cancelled.
func (r *WorkspaceRepository) StartPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := r.Prune(maxIdle); pruned > 0 {
				r.logger.LogAttrs(ctx, slog.LevelInfo, "pruned idle workspaces", slog.Int("pruned", pruned))
			}
		}
	}
}
