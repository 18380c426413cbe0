package search

import (
	"context"
	"log/slog"
)

// Service runs the full query pipeline: translate the requirement, retrieve
// candidate summaries, and, only when more than one candidate comes back,
// re-rank them with the model and parse the selection.
type Service struct {
	translator *Translator
	retriever  *Retriever
	reranker   *Reranker
	logger     *slog.Logger
}

// NewService wires the query pipeline stages together.
func NewService(t *Translator, r *Retriever, rr *Reranker) *Service {
	return &Service{translator: t, retriever: r, reranker: rr, logger: slog.Default()}
}

// Search answers a free-text requirement. A nil result means the pipeline
// short-circuited (zero or one candidate) and the response is an empty
// object. With exactly one candidate, re-ranking is skipped and the result
// stays empty even though a relevant candidate exists; that asymmetry is
// deliberate, pinned behavior.
func (s *Service) Search(ctx context.Context, requirement string) (*Result, error) {
	s.logger.Info("searching repositories for requirement", "requirement", requirement)

	query, err := s.translator.Translate(ctx, requirement)
	if err != nil {
		return nil, err
	}

	candidates, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	s.logger.Info("retrieved candidate summaries", "count", len(candidates))

	if len(candidates) <= 1 {
		return nil, nil
	}

	selection, err := s.reranker.Select(ctx, candidates, requirement)
	if err != nil {
		return nil, err
	}

	descriptors, err := ParseRepositories(ExtractFencedXML(selection))
	if err != nil {
		return nil, err
	}
	s.logger.Info("model selected repositories", "count", len(descriptors))

	return &Result{Repositories: descriptors}, nil
}
