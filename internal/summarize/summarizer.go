// Package summarize turns a repository document into a tag-structured
// summary via an OpenAI-compatible chat model, with a bounded correction
// cycle for outputs that miss the required tags.
package summarize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/airmomo/starsearch/internal/llm"
)

const (
	firstTemperature = 0.2
	// Retries run hotter to encourage divergence from the failing output.
	retryTemperature = 0.7

	// maxAttempts bounds the correction cycle. A model that never complies
	// yields a terminal error instead of an endless loop.
	maxAttempts = 5
)

const summarySystemPrompt = "You are a documentation summarization assistant. " +
	"Summarize the provided document and format your reply as XML. " +
	"Generate exactly the structure shown in the example and no other tags. Example: " +
	"```xml<Repository> " +
	"<name>(the name of the repository)</name> " +
	"<owner>(the owner of the repository)</owner> " +
	"<url>(the GitHub link of the repository)</url> " +
	"<description>(... analyze the provided document and write a description of the repository; " +
	"it must cover the functionality it implements, the scenarios it applies to, and other key, relevant points ...)</description> " +
	"<keywords>(... suitable keywords for the repository in Chinese and English, derived from the provided document, separated by commas ...)</keywords> " +
	"</Repository>```"

const summaryExampleReply = "```xml<Repository> " +
	"<name>(the name of the repository)</name> " +
	"<owner>(the owner of the repository)</owner> " +
	"<url>(the GitHub link of the repository)</url> " +
	"<description>(... analyze the provided document and write a description of the repository; " +
	"it must cover the functionality it implements, the scenarios it applies to, and other key, relevant points ...)</description> " +
	"<keywords>(... suitable keywords for the repository in Chinese and English, derived from the provided document, separated by commas ...)</keywords> " +
	"</Repository>```"

const retryInstruction = "Your reply must contain the " +
	"<Repository><name><owner><url><description><keywords> tags and their content. " +
	"Summarize again and reply in the format agreed earlier."

// Chatter is the chat-completion dependency of the Summarizer.
type Chatter interface {
	Chat(ctx context.Context, temperature float64, messages []llm.Message) (string, error)
}

// Summarizer produces tag-structured summaries of repository documents.
type Summarizer struct {
	llm       Chatter
	validator Validator
	logger    *slog.Logger
}

// New creates a Summarizer using the given chat client and validator.
func New(c Chatter, v Validator) *Summarizer {
	return &Summarizer{llm: c, validator: v, logger: slog.Default()}
}

// basePrompt is the fixed system instruction plus the one-shot example
// exchange, followed by the real document in a fenced markdown block.
func basePrompt(document string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: "```markdown(... partial document content ...)```"},
		{Role: "assistant", Content: summaryExampleReply},
		{Role: "user", Content: "```markdown" + document + "```"},
	}
}

// Summarize sends the document for a first-attempt summary at a low
// sampling temperature and returns the raw model output.
func (s *Summarizer) Summarize(ctx context.Context, document string) (string, error) {
	out, err := s.llm.Chat(ctx, firstTemperature, basePrompt(document))
	if err != nil {
		return "", fmt.Errorf("summarizing document: %w", err)
	}
	return out, nil
}

// Retry resubmits the document together with the previous (invalid) output
// and an explicit correction instruction, at a higher temperature.
func (s *Summarizer) Retry(ctx context.Context, document, last string) (string, error) {
	messages := append(basePrompt(document),
		llm.Message{Role: "assistant", Content: last},
		llm.Message{Role: "user", Content: retryInstruction},
	)
	out, err := s.llm.Chat(ctx, retryTemperature, messages)
	if err != nil {
		return "", fmt.Errorf("re-summarizing document: %w", err)
	}
	return out, nil
}

// Repair runs the correction cycle on last until it validates, bounded by
// maxAttempts. An already-valid input is returned unchanged without any
// model call.
func (s *Summarizer) Repair(ctx context.Context, document, last string) (string, error) {
	if s.validator.Valid(last) {
		return last, nil
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s.logger.Info("summary missing required tags, regenerating", "attempt", attempt)
		out, err := s.Retry(ctx, document, last)
		if err != nil {
			return "", err
		}
		if s.validator.Valid(out) {
			return out, nil
		}
		last = out
	}
	return "", fmt.Errorf("could not produce a valid summary after %d attempts", maxAttempts)
}

// ValidSummary summarizes the document and repairs the result until it
// validates, bounded by the correction cycle's attempt limit.
func (s *Summarizer) ValidSummary(ctx context.Context, document string) (string, error) {
	out, err := s.Summarize(ctx, document)
	if err != nil {
		return "", err
	}
	return s.Repair(ctx, document, out)
}
