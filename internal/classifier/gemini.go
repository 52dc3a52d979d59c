package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/dkapoor/ledgerlens/internal/catalogue"
	"github.com/dkapoor/ledgerlens/internal/domain"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// Gemini routes questions through the Gemini API. The system prompt is built
// once from the catalogue at construction time.
type Gemini struct {
	client  *genai.Client
	model   string
	prompt  string
	rules   *Rules
	timeout time.Duration
}

// NewGemini creates a Gemini-backed classifier. apiKey may be empty when the
// key is supplied through the environment.
func NewGemini(ctx context.Context, apiKey, model string, cat *catalogue.Catalogue, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gemini{
		client:  client,
		model:   model,
		prompt:  systemPrompt(cat.Describe()),
		rules:   NewRules(cat),
		timeout: timeout,
	}, nil
}

func (g *Gemini) Classify(ctx context.Context, question string) (*domain.Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: g.prompt},
				{Text: "User question: " + question},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("classifier: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("classifier: empty response from model")
	}

	var decision domain.Decision
	clean := cleanModelJSON(rawText)
	if err := json.Unmarshal([]byte(clean), &decision); err != nil {
		return nil, fmt.Errorf("classifier: unmarshal decision: %w\nraw response: %s", err, rawText)
	}

	g.rules.Enforce(question, &decision)
	return &decision, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignored the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost object if there is still text around it.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
