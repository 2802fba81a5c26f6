// Package store persists generated scene documents.
//
// [FileStore] keeps one JSON file per scene and suits a single machine.
// [MongoStore] keeps documents in a MongoDB collection keyed by run id and
// is what the HTTP server uses in shared deployments. Both validate ids
// with errors.ValidateSceneID before touching storage and report missing
// scenes as NOT_FOUND.
package store

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/scatter/pkg/sceneio"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Store saves and retrieves scene documents by run id.
type Store interface {
	Save(ctx context.Context, doc sceneio.Document) error
	Get(ctx context.Context, id string) (sceneio.Document, error)
	// List returns the most recent scenes first.
	List(ctx context.Context, limit int) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// Summary describes a stored scene without its objects.
type Summary struct {
	RunID      string    `json:"run_id"`
	Seed       uint64    `json:"seed"`
	ConfigHash string    `json:"config_hash,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Sites      int       `json:"sites"`
	Objects    int       `json:"objects"`
}

// Summarize returns the summary of doc.
func Summarize(doc sceneio.Document) Summary {
	return Summary{
		RunID:      doc.RunID,
		Seed:       doc.Seed,
		ConfigHash: doc.ConfigHash,
		CreatedAt:  doc.CreatedAt,
		Sites:      len(doc.Sites()),
		Objects:    doc.Count(),
	}
}

// newestFirst sorts summaries by creation time, breaking ties by id, and
// trims them to limit.
func newestFirst(out []Summary, limit int) []Summary {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.RunID < b.RunID {
			return -1
		}
		if a.RunID > b.RunID {
			return 1
		}
		return 0
	})
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
