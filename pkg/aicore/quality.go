package aicore

import (
	"context"
	"strings"
	"unicode"
)

var degenerateResponses = map[string]struct{}{
	"":     {},
	"{}":   {},
	"[]":   {},
	"null": {},
	"none": {},
}

const meaningfulAlnumThreshold = 30

// LooksMeaningful reports whether text is substantive enough to accept as a
// model response. Empty, whitespace-only, and placeholder responses fail,
// as does any text with fewer than 30 alphanumeric characters.
func LooksMeaningful(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if _, degenerate := degenerateResponses[trimmed]; degenerate {
		return false
	}

	count := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
			if count >= meaningfulAlnumThreshold {
				return true
			}
		}
	}

	return false
}

// CompleteWithGate calls Complete and checks the result with LooksMeaningful.
// A degenerate response triggers one corrective re-prompt with insist appended
// as a system message. The second response is returned regardless of quality.
// The two gate attempts are independent of the transport's own retry policy.
func (c *Client) CompleteWithGate(ctx context.Context, messages []Message, temperature float64, maxTokens int, insist string) (string, error) {
	content, err := c.Complete(ctx, messages, temperature, maxTokens)
	if err != nil {
		return "", err
	}

	if LooksMeaningful(content) {
		return content, nil
	}

	c.logger.Warn("degenerate completion response, re-prompting", "length", len(content))

	corrected := make([]Message, 0, len(messages)+1)
	corrected = append(corrected, messages...)
	corrected = append(corrected, Message{Role: "system", Content: insist})

	return c.Complete(ctx, corrected, temperature, maxTokens)
}
