package search

import (
	"context"
	"fmt"
)

// Candidates is the nearest-neighbor source for the query pipeline; the
// vector index collection implements it. No user filter is applied at query
// time because collections are already user-partitioned.
type Candidates interface {
	Query(ctx context.Context, text string, topK int) ([]string, error)
}

// Retriever returns the summaries most similar to a translated query.
type Retriever struct {
	collection Candidates
	topK       int
}

// NewRetriever creates a Retriever over the given collection, capped at
// topK results per query.
func NewRetriever(collection Candidates, topK int) *Retriever {
	return &Retriever{collection: collection, topK: topK}
}

// Retrieve returns up to topK summary strings for the query text, most
// similar first.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	docs, err := r.collection.Query(ctx, query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving candidates: %w", err)
	}
	return docs, nil
}
