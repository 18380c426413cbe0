// Package embedding provides text embedding functions for the vector index:
// an OpenAI-compatible API client, a ZhipuAI client, and a local
// feature-hashing fallback used when no embedding API is configured.
package embedding

import (
	"context"
	"strings"
)

// Embedder turns texts into embedding vectors. Implementations must return
// one vector per input, in input order.
type Embedder interface {
	// Name identifies the embedding function; it partitions the on-disk
	// vector data so collections built with different embedders never mix.
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// zhipuMarker in the embedding API base selects the ZhipuAI client.
const zhipuMarker = "bigmodel"

// Select picks the embedding function by configuration precedence:
// no embedding configuration at all selects the local fallback, a base URL
// carrying the ZhipuAI marker selects the ZhipuAI client, and anything else
// selects the generic OpenAI-compatible client.
func Select(apiBase, apiKey, model string) Embedder {
	switch {
	case apiBase == "" || apiKey == "" || model == "":
		return NewLocal()
	case strings.Contains(apiBase, zhipuMarker):
		return NewZhipu(apiBase, apiKey, model)
	default:
		return NewOpenAI(apiBase, apiKey, model)
	}
}

// flattenNewlines replaces newlines with spaces; embedding APIs perform
// measurably worse on inputs containing raw newlines.
func flattenNewlines(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = strings.ReplaceAll(t, "\n", " ")
	}
	return out
}
