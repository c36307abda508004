// Package extract pulls organization names out of crawled text with a single
// language-model completion.
package extract

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

const promptTemplate = `Extract only company or organization names from this text.
Return one name per line, with no numbering or extra characters.

Text:
%s
`

// bulletChars are trimmed from both ends of every line of model output.
const bulletChars = "-• "

// Extractor turns unstructured text into a sorted list of organization names.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	usage     anthropic.TokenUsage
}

// NewExtractor creates an Extractor that calls model through client.
func NewExtractor(client anthropic.Client, model string, maxTokens int64) *Extractor {
	return &Extractor{client: client, model: model, maxTokens: maxTokens}
}

// LastUsage returns the token usage of the most recent Extract call.
func (e *Extractor) LastUsage() anthropic.TokenUsage {
	return e.usage
}

// Prompt builds the instruction prompt embedding text.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// Extract sends text to the model and parses its reply. Any failure is
// returned; there is no local recovery.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	temp := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: Prompt(text)}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: completion")
	}

	e.usage = resp.Usage
	resp.Usage.LogCost(e.model, "extract")

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return nil, eris.Errorf("extract: empty completion (stop reason %q)", resp.StopReason)
	}

	names := ParseNames(raw)
	zap.L().Info("extract: organization names found",
		zap.Int("names", len(names)),
		zap.Int("input_chars", len(text)),
	)
	return names, nil
}

// ParseNames splits model output into lines, trims bullets, dashes and
// whitespace, drops empty lines, and returns the distinct names sorted.
func ParseNames(raw string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		name := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), bulletChars))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
