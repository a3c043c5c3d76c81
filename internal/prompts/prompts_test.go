package prompts_test

import (
	"strings"
	"testing"

	"github.com/accordlabs/accord/internal/prompts"
)

func TestComparisonIncludesSummaries(t *testing.T) {
	msgs := prompts.Comparison("clauses:\n- text: net 30", "charge_items:\n- line_number: 1")

	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != prompts.SystemMessage {
		t.Errorf("first message should be the system framing, got %+v", msgs[0])
	}
	if msgs[1].Role != "user" {
		t.Errorf("second message role = %q, want user", msgs[1].Role)
	}

	body := msgs[1].Content
	if !strings.Contains(body, "clauses:\n- text: net 30") {
		t.Error("contract summary missing from prompt")
	}
	if !strings.Contains(body, "charge_items:\n- line_number: 1") {
		t.Error("invoice summary missing from prompt")
	}
	if !strings.Contains(body, "possible_charge") {
		t.Error("prompt should explain the possible_charge flag")
	}
	if !strings.Contains(body, "Needs review") {
		t.Error("prompt should name the Needs review verdict")
	}
}

func TestComparisonOmitsEmptyInvoiceBlock(t *testing.T) {
	msgs := prompts.Comparison("clauses: []", "")

	body := msgs[1].Content
	if strings.Contains(body, "Invoice summary") {
		t.Error("empty invoice summary should omit the invoice block")
	}
	if !strings.Contains(body, "Contract summary") {
		t.Error("contract block should always be present")
	}
}

func TestRecommendationEmbedsComparison(t *testing.T) {
	review := "## Compliance Overview\nAll items compliant."
	msgs := prompts.Recommendation(review)

	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}

	body := msgs[1].Content
	if !strings.Contains(body, review) {
		t.Error("comparison review missing from prompt")
	}
	if !strings.Contains(body, "Summary Judgment") {
		t.Error("prompt should list the required memo sections")
	}
	if !strings.Contains(body, "numbered list ordered by urgency") {
		t.Error("prompt should constrain action ordering")
	}
}

func TestTallyDemandsBareJSON(t *testing.T) {
	msgs := prompts.Tally("## Line Item Review\n| A | 1 | ... |")

	body := msgs[1].Content
	if !strings.Contains(body, `{"compliant": 0, "non_compliant": 0, "needs_review": 0}`) {
		t.Error("prompt should show the expected JSON shape")
	}
	if !strings.Contains(body, "ONLY a JSON object") {
		t.Error("prompt should forbid surrounding prose")
	}
}
