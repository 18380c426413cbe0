package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// localDimension is fixed so vectors stay comparable across runs.
const localDimension = 384

// Local is a deterministic feature-hashing bag-of-words embedder. It is the
// fallback when no embedding API is configured: quality is well below a
// learned model, but it needs no network, no key, and produces stable
// vectors for the similarity search to rank.
type Local struct {
	tokenPattern *regexp.Regexp
}

// NewLocal creates the local feature-hashing embedder.
func NewLocal() *Local {
	return &Local{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
	}
}

func (l *Local) Name() string { return "local_embedding" }

// Embed hashes each token into one of localDimension buckets with a
// hash-derived sign, then L2-normalizes the result.
func (l *Local) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range flattenNewlines(texts) {
		vectors[i] = l.embedOne(text)
	}
	return vectors, nil
}

func (l *Local) embedOne(text string) []float32 {
	vec := make([]float32, localDimension)
	for _, token := range l.tokenPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New32a()
		h.Write([]byte(token))
		sum := h.Sum32()
		bucket := int(sum % localDimension)
		sign := float32(1)
		if sum&(1<<31) != 0 {
			sign = -1
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
