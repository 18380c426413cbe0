package embedding

import (
	"context"
	"net/http"
	"strings"
)

// zhipuDefaultURL is the full embeddings endpoint of ZhipuAI's open
// platform; unlike the OpenAI client, the configured base is the endpoint
// itself.
const zhipuDefaultURL = "https://open.bigmodel.cn/api/paas/v4/embeddings"

// Zhipu is an embeddings client for the ZhipuAI (bigmodel.cn) API. The wire
// format matches the OpenAI embeddings shape.
type Zhipu struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewZhipu creates a ZhipuAI embeddings client. endpoint is the full
// embeddings URL; empty selects the platform default.
func NewZhipu(endpoint, apiKey, model string) *Zhipu {
	if endpoint == "" {
		endpoint = zhipuDefaultURL
	}
	return &Zhipu{
		url:        strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: embedTimeout},
	}
}

func (z *Zhipu) Name() string { return "zhipuai_embedding" }

// Embed returns one vector per input text, ordered by input index.
func (z *Zhipu) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return postEmbeddings(ctx, z.httpClient, z.url, z.apiKey, z.model, texts)
}
