package preview

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"contentapi/internal/storage"
)

// Outcome is the result of removing one artifact file.
type Outcome int

const (
	Deleted Outcome = iota
	NotFound
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Removal reports what happened to one artifact path. Err is set when Outcome is Failed.
type Removal struct {
	Path    string
	Outcome Outcome
	Err     error
}

// DeletedPaths returns the paths that were actually removed, in enumeration order.
func DeletedPaths(removals []Removal) []string {
	out := make([]string, 0, len(removals))
	for _, r := range removals {
		if r.Outcome == Deleted {
			out = append(out, r.Path)
		}
	}
	return out
}

const removeConcurrency = 4

// Invalidator removes every known derived artifact of a document.
type Invalidator struct {
	store   *storage.FileStore
	log     *slog.Logger
	metrics *Metrics
}

// NewInvalidator creates an Invalidator. metrics may be nil.
func NewInvalidator(store *storage.FileStore, log *slog.Logger, metrics *Metrics) *Invalidator {
	if log == nil {
		log = slog.Default()
	}
	return &Invalidator{store: store, log: log, metrics: metrics}
}

// Invalidate deletes the artifacts of guid that exist on disk; for etag-bearing artifacts the
// sidecar goes too. It is best-effort: failures are logged and reported per path, never returned.
// The raw file is never touched.
func (inv *Invalidator) Invalidate(ctx context.Context, guid string) []Removal {
	targets := inv.targets(guid)
	removals := make([]Removal, len(targets))

	var g errgroup.Group
	g.SetLimit(removeConcurrency)
	for i, name := range targets {
		g.Go(func() error {
			removals[i] = inv.remove(ctx, guid, name)
			return nil
		})
	}
	_ = g.Wait()
	return removals
}

// targets lists the artifact names to delete, in a stable order.
func (inv *Invalidator) targets(guid string) []string {
	var names []string
	for _, a := range storage.EtagArtifacts {
		if inv.store.Exists(guid, a) {
			names = append(names, a, storage.EtagName(a))
		}
	}
	for _, a := range storage.SingletonArtifacts {
		if inv.store.Exists(guid, a) {
			names = append(names, a)
		}
	}
	return names
}

func (inv *Invalidator) remove(ctx context.Context, guid, name string) Removal {
	r := Removal{Path: inv.store.Path(guid, name), Outcome: Deleted}
	if err := inv.store.Remove(guid, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.Outcome = NotFound
		} else {
			r.Outcome, r.Err = Failed, err
			inv.log.WarnContext(ctx, "artifact_remove_failed", "guid", guid, "path", r.Path, "error", err.Error())
		}
	}
	inv.metrics.removal(r.Outcome)
	return r
}
