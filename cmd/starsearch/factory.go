package main

import (
	"context"
	"fmt"

	"github.com/airmomo/starsearch/internal/api"
	"github.com/airmomo/starsearch/internal/config"
	"github.com/airmomo/starsearch/internal/embedding"
	"github.com/airmomo/starsearch/internal/github"
	"github.com/airmomo/starsearch/internal/index"
	"github.com/airmomo/starsearch/internal/ingest"
	"github.com/airmomo/starsearch/internal/llm"
	"github.com/airmomo/starsearch/internal/repo"
	"github.com/airmomo/starsearch/internal/search"
	"github.com/airmomo/starsearch/internal/summarize"
)

// serviceFactory builds the real collaborators from a settings snapshot.
// Everything except the shared index store is constructed per request, so a
// settings save takes effect on the next call.
type serviceFactory struct{}

var _ api.Factory = (*serviceFactory)(nil)

func (f *serviceFactory) Fetcher(s config.Settings) (api.Fetcher, error) {
	return github.NewClient(s.GitHubToken), nil
}

func (f *serviceFactory) DocStore(s config.Settings) (api.DocSaver, error) {
	return repo.NewStore(s.DirectoryPath, github.NewClient(s.GitHubToken)), nil
}

// collection opens the user-scoped collection selected by the settings:
// the embedding function picks the data directory, the authenticated GitHub
// login names the collection.
func (f *serviceFactory) collection(ctx context.Context, s config.Settings) (*index.Collection, error) {
	embedder := embedding.Select(s.EmbeddingAPIBase, s.EmbeddingAPIKey, s.EmbeddingModelName)

	store, err := index.OpenShared(index.DataDir(embedder.Name()))
	if err != nil {
		return nil, err
	}

	username, err := github.NewClient(s.GitHubToken).Username(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving GitHub username: %w", err)
	}
	return store.Collection(username, embedder), nil
}

func (f *serviceFactory) Pipeline(ctx context.Context, s config.Settings) (api.Runner, error) {
	collection, err := f.collection(ctx, s)
	if err != nil {
		return nil, err
	}

	chat := llm.NewClient(s.LLMAPIBase, s.LLMAPIKey, s.LLMModelName)
	validator := summarize.TagValidator{}
	summarizer := summarize.New(chat, validator)
	docs := repo.NewStore(s.DirectoryPath, nil)

	return ingest.New(docs, collection, summarizer, validator, collection.Name()), nil
}

func (f *serviceFactory) Searcher(ctx context.Context, s config.Settings) (api.Searcher, error) {
	collection, err := f.collection(ctx, s)
	if err != nil {
		return nil, err
	}

	chat := llm.NewClient(s.LLMAPIBase, s.LLMAPIKey, s.LLMModelName)
	return search.NewService(
		search.NewTranslator(chat),
		search.NewRetriever(collection, s.RetrieverNResults),
		search.NewReranker(chat),
	), nil
}
