// Package search implements the query pipeline: query translation,
// embedding retrieval, LLM re-ranking, and result parsing.
package search

import (
	"context"
	"fmt"

	"github.com/airmomo/starsearch/internal/llm"
)

const translateTemperature = 0.3

// Chatter is the chat-completion dependency of the query pipeline.
type Chatter interface {
	Chat(ctx context.Context, temperature float64, messages []llm.Message) (string, error)
}

const translatorSystemPrompt = "You are a translation assistant. Translate my input into both " +
	"Chinese and English, and extract the keywords and entities from both the Chinese and the " +
	"English sentence."

const (
	translatorExampleZh = "'有哪些使用了通用大模型的应用可以用于文本转语音或语音转文本的转换？'"
	translatorExampleEn = "'What applications that use general large models are available for " +
		"text-to-speech or speech-to-text conversion?'"
	translatorExampleReply = "有哪些使用了通用大模型的应用可以用于文本转语音或语音转文本的转换？ " +
		"（大模型、文本、语音、转换、文本转语音、语音转文本） " +
		"What applications that use general large models are available for text-to-speech or " +
		"speech-to-text conversion? " +
		"(large models, text, speech, text-to-speech, speech-to-text, conversion)"
)

// Translator renders a free-text requirement as a bilingual query with
// extracted keywords, used verbatim as the retrieval query text.
type Translator struct {
	llm Chatter
}

// NewTranslator creates a Translator over the given chat client.
func NewTranslator(c Chatter) *Translator {
	return &Translator{llm: c}
}

// Translate returns the bilingual rendering plus keywords for query. The
// output structure is not validated downstream; the retriever treats it as
// an opaque query string.
func (t *Translator) Translate(ctx context.Context, query string) (string, error) {
	out, err := t.llm.Chat(ctx, translateTemperature, []llm.Message{
		{Role: "system", Content: translatorSystemPrompt},
		{Role: "user", Content: translatorExampleZh},
		{Role: "assistant", Content: translatorExampleReply},
		{Role: "user", Content: translatorExampleEn},
		{Role: "assistant", Content: translatorExampleReply},
		{Role: "user", Content: "'" + query + "'"},
	})
	if err != nil {
		return "", fmt.Errorf("translating query: %w", err)
	}
	return out, nil
}
