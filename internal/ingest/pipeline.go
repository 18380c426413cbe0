// Package ingest populates the vector index from the stored repository
// documents: each document is summarized into a tagged description and
// indexed once, with repeated runs skipping entries that already validate.
package ingest

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/airmomo/starsearch/internal/index"
	"github.com/airmomo/starsearch/internal/summarize"
)

// DocumentSource lists the stored documents keyed by path.
type DocumentSource interface {
	Documents() (map[string]string, error)
}

// Summarizer produces validated summaries with the bounded correction cycle.
type Summarizer interface {
	ValidSummary(ctx context.Context, document string) (string, error)
	Repair(ctx context.Context, document, last string) (string, error)
}

// Collection is the vector index surface the pipeline needs.
type Collection interface {
	Get(ctx context.Context, id string) (index.Entry, bool, error)
	Add(ctx context.Context, id, document string, md index.Metadata) error
}

// Pipeline ingests every stored document into a user's collection. It runs
// to completion within a single request; progress is reported through logs.
type Pipeline struct {
	docs       DocumentSource
	collection Collection
	summarizer Summarizer
	validator  summarize.Validator
	user       string
	logger     *slog.Logger
}

// New creates a Pipeline ingesting docs into collection on behalf of user.
func New(docs DocumentSource, collection Collection, s Summarizer, v summarize.Validator, user string) *Pipeline {
	return &Pipeline{
		docs:       docs,
		collection: collection,
		summarizer: s,
		validator:  v,
		user:       user,
		logger:     slog.Default(),
	}
}

// Run walks the documents in path order. Entries whose stored summary
// already validates are skipped without any model call; invalid stored
// summaries go through the correction cycle and are overwritten; absent
// entries are summarized and added. A summarization failure skips that
// document and the run continues.
func (p *Pipeline) Run(ctx context.Context) error {
	docs, err := p.docs.Documents()
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(docs))
	for path := range docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID, "collection", p.user)

	for i, path := range paths {
		progress := logger.With("file", path, "progress", i+1, "total", len(paths))

		entry, exists, err := p.collection.Get(ctx, path)
		if err != nil {
			return err
		}

		if exists && p.validator.Valid(entry.Document) {
			progress.Info("document already vectorized, skipping")
			continue
		}

		var summary string
		if exists {
			progress.Info("stored summary missing required tags, regenerating")
			summary, err = p.summarizer.Repair(ctx, docs[path], entry.Document)
		} else {
			progress.Info("summarizing and vectorizing document")
			summary, err = p.summarizer.ValidSummary(ctx, docs[path])
		}
		if err != nil {
			progress.Warn("summarization failed, skipping document", "error", err)
			continue
		}

		if err := p.collection.Add(ctx, path, summary, index.Metadata{
			SourcePath: path,
			StarredBy:  p.user,
		}); err != nil {
			return err
		}
		progress.Info("document vectorized")
	}
	return nil
}
