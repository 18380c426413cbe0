package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/airmomo/starsearch/internal/llm"
)

const rerankerSystemPrompt = "First, analyze the given Repositories and understand the " +
	"functionality they implement and the scenarios they could apply to. " +
	"Then, based on my question or requirement, evaluate the Repositories and select and output, " +
	"in the requested format, those that can solve my problem or meet my requirement. " +
	"If there is no Repository at all, or none is suitable, reply with exactly " +
	"'```xml<Repositories></Repositories>```'."

const rerankerFormatTemplate = "```xml<Repositories> " +
	"<Repository> " +
	"<name>(the name of the repository)</name> " +
	"<owner>(the owner of the repository)</owner> " +
	"<url>(the GitHub link of the repository)</url> " +
	"<description>(... analyze the context and write a description of the repository; it must " +
	"cover the functionality it implements, the scenarios it applies to, and other key, relevant " +
	"points ...)</description> " +
	"<keywords>(... suitable keywords for the repository in Chinese and English, derived from the " +
	"context, separated by commas ...)</keywords> " +
	"</Repository> ... ( ... one or more repositories ...) " +
	"</Repositories>```"

const rerankerAcknowledgement = "Understood. I have analyzed all of these Repositories and fully " +
	"understand the functionality they implement and the scenarios they could apply to. In detail: " +
	rerankerFormatTemplate

// Reranker asks the model to select, from the retrieved candidate
// summaries, the subset satisfying the requirement, as fenced XML. Selection
// is entirely the model's judgment; the step is non-deterministic by design.
type Reranker struct {
	llm Chatter
}

// NewReranker creates a Reranker over the given chat client.
func NewReranker(c Chatter) *Reranker {
	return &Reranker{llm: c}
}

// Select returns the raw model reply for the candidate set and requirement.
// Each candidate is stripped of its own ```xml fence before being embedded
// in the prompt; a candidate without a fence contributes an empty line.
func (r *Reranker) Select(ctx context.Context, candidates []string, requirement string) (string, error) {
	stripped := make([]string, len(candidates))
	for i, c := range candidates {
		stripped[i] = ExtractFencedXML(c)
	}
	candidateBlock := strings.Join(stripped, "\n")

	out, err := r.llm.Chat(ctx, 0, []llm.Message{
		{Role: "system", Content: rerankerSystemPrompt},
		{Role: "user", Content: "<Repositories>(... nothing ...)</Repositories>"},
		{Role: "assistant", Content: "```xml<Repositories></Repositories>```"},
		{Role: "user", Content: "<Repositories>(... " + candidateBlock + " ...)</Repositories>"},
		{Role: "assistant", Content: rerankerAcknowledgement},
		{Role: "user", Content: "My question or requirement is: " + requirement + ". " +
			"You need to select from these Repositories and output, in the requested format, those " +
			"that can solve my problem or meet my requirement. Reply in the following format: " +
			rerankerFormatTemplate},
	})
	if err != nil {
		return "", fmt.Errorf("selecting repositories: %w", err)
	}
	return out, nil
}
