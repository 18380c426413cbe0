// Package config holds the runtime settings for the service: credentials and
// endpoints for GitHub, the chat model, and the embedding model, plus the
// document directory and retrieval limits. Settings are persisted as a single
// JSON file and replaced wholesale on save.
package config

import (
	"os"
	"strconv"
)

// Settings is the full configuration surface exposed over the HTTP API.
// Field names mirror the persisted settings.json layout.
type Settings struct {
	GitHubToken        string `json:"github_token"`
	LLMAPIBase         string `json:"llm_api_base"`
	LLMAPIKey          string `json:"llm_api_key"`
	LLMModelName       string `json:"llm_model_name"`
	EmbeddingAPIBase   string `json:"embedding_api_base"`
	EmbeddingAPIKey    string `json:"embedding_api_key"`
	EmbeddingModelName string `json:"embedding_model_name"`
	ReSave             bool   `json:"re_save"`
	DirectoryPath      string `json:"directory_path"`
	RetrieverNResults  int    `json:"retriever_n_results"`
}

// Defaults returns the settings used before anything has been saved.
func Defaults() Settings {
	return Settings{
		DirectoryPath:     "static/repo_md",
		RetrieverNResults: 10,
	}
}

// applyEnvOverrides lets STARSEARCH_* environment variables override the
// loaded values. Useful for bootstrapping a deployment without touching the
// settings endpoint.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("STARSEARCH_GITHUB_TOKEN"); v != "" {
		s.GitHubToken = v
	}
	if v := os.Getenv("STARSEARCH_LLM_API_BASE"); v != "" {
		s.LLMAPIBase = v
	}
	if v := os.Getenv("STARSEARCH_LLM_API_KEY"); v != "" {
		s.LLMAPIKey = v
	}
	if v := os.Getenv("STARSEARCH_LLM_MODEL_NAME"); v != "" {
		s.LLMModelName = v
	}
	if v := os.Getenv("STARSEARCH_EMBEDDING_API_BASE"); v != "" {
		s.EmbeddingAPIBase = v
	}
	if v := os.Getenv("STARSEARCH_EMBEDDING_API_KEY"); v != "" {
		s.EmbeddingAPIKey = v
	}
	if v := os.Getenv("STARSEARCH_EMBEDDING_MODEL_NAME"); v != "" {
		s.EmbeddingModelName = v
	}
	if v := os.Getenv("STARSEARCH_DIRECTORY_PATH"); v != "" {
		s.DirectoryPath = v
	}
	if v := os.Getenv("STARSEARCH_RETRIEVER_N_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.RetrieverNResults = n
		}
	}
}
