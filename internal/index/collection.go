package index

import (
	"container/heap"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/airmomo/starsearch/internal/embedding"
)

// Metadata travels with an indexed summary.
type Metadata struct {
	SourcePath string
	StarredBy  string
}

// Entry is one indexed summary: the document filename as ID, the validated
// summary text as the document, and its provenance as metadata.
type Entry struct {
	ID        string
	Document  string
	Metadata  Metadata
	CreatedAt time.Time
}

// Collection is a named, user-scoped partition of the index. Collections
// are created lazily: a name exists once its first entry is added.
type Collection struct {
	store    *Store
	name     string
	embedder embedding.Embedder
}

// Collection returns the named collection using the given embedding
// function for adds and queries.
func (s *Store) Collection(name string, e embedding.Embedder) *Collection {
	return &Collection{store: s, name: name, embedder: e}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Get returns the entry with the given ID, reporting whether it exists.
func (c *Collection) Get(ctx context.Context, id string) (Entry, bool, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT id, document, source_path, starred_by, created_at
		FROM entries WHERE collection = ? AND id = ?`, c.name, id)

	var e Entry
	var createdAt string
	err := row.Scan(&e.ID, &e.Document, &e.Metadata.SourcePath, &e.Metadata.StarredBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("getting entry %s: %w", id, err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parsing created_at for %s: %w", id, err)
	}
	e.CreatedAt = t
	return e, true, nil
}

// Add embeds document and stores it under id, replacing any existing entry
// with the same id. Callers deduplicate with Get first; the replace
// semantics exist for regenerated summaries that failed validation.
func (c *Collection) Add(ctx context.Context, id, document string, md Metadata) error {
	vectors, err := c.embedder.Embed(ctx, []string{document})
	if err != nil {
		return fmt.Errorf("embedding document %s: %w", id, err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embedding document %s: got %d vectors", id, len(vectors))
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO entries (collection, id, document, source_path, starred_by, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.name, id, document, md.SourcePath, md.StarredBy,
		encodeFloat32s(vectors[0]), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting entry %s: %w", id, err)
	}
	return nil
}

// Count returns the number of entries in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var count int
	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE collection = ?", c.name).Scan(&count)
	return count, err
}

// idScore tracks an entry ID and its similarity during the scan phase.
type idScore struct {
	ID    string
	Score float32
}

// Query embeds the query text and returns the documents of the topK most
// similar entries, best match first.
func (c *Collection) Query(ctx context.Context, text string, topK int) ([]string, error) {
	if topK <= 0 {
		return nil, nil
	}

	vectors, err := c.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	queryVec := vectors[0]
	queryNorm := norm(queryVec)
	if queryNorm == 0 {
		return nil, nil
	}

	// Phase 1: scan id + embedding only, keeping topK in a min-heap.
	rows, err := c.store.db.QueryContext(ctx,
		"SELECT id, embedding FROM entries WHERE collection = ?", c.name)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	h := &idScoreHeap{}
	heap.Init(h)

	var buf []float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		buf, err = decodeFloat32sInto(buf, blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", id, err)
		}

		score := cosine(queryVec, buf, queryNorm)
		if h.Len() < topK {
			heap.Push(h, idScore{ID: id, Score: score})
		} else if score > (*h)[0].Score {
			(*h)[0] = idScore{ID: id, Score: score}
			heap.Fix(h, 0)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	if h.Len() == 0 {
		return nil, nil
	}

	// Drain the heap into descending score order.
	topIDs := make([]string, h.Len())
	for i := len(topIDs) - 1; i >= 0; i-- {
		topIDs[i] = heap.Pop(h).(idScore).ID
	}

	// Phase 2: fetch documents for the winners, preserving rank order.
	docs := make([]string, 0, len(topIDs))
	for _, id := range topIDs {
		var doc string
		err := c.store.db.QueryRowContext(ctx,
			"SELECT document FROM entries WHERE collection = ? AND id = ?", c.name, id).Scan(&doc)
		if err != nil {
			return nil, fmt.Errorf("fetching document %s: %w", id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// idScoreHeap is a min-heap of idScore ordered by Score.
type idScoreHeap []idScore

func (h idScoreHeap) Len() int           { return len(h) }
func (h idScoreHeap) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h idScoreHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idScoreHeap) Push(x any)        { *h = append(*h, x.(idScore)) }
func (h *idScoreHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
