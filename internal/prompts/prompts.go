// Package prompts builds the message sequences for each analysis stage.
package prompts

import (
	"strings"

	"github.com/accordlabs/accord/pkg/aicore"
)

// SystemMessage frames every analysis call.
const SystemMessage = "You are a meticulous contract compliance analyst who produces concise, structured reviews."

// InsistMessage is the corrective instruction appended when a response
// fails the quality gate.
const InsistMessage = "Your previous response was empty or too short to be useful. " +
	"Produce the full structured review requested above, with every required section populated."

// Comparison builds the stage-one prompt: line-by-line compliance review of
// the invoice against the contract.
func Comparison(contractSummary, invoiceSummary string) []aicore.Message {
	var b strings.Builder

	b.WriteString("You are reviewing an invoice for contract compliance.\n")
	b.WriteString("Determine whether each invoice line item is consistent with the contract clauses.\n")
	b.WriteString("For every line item you must state one of: Compliant, Non-compliant, Needs review.\n")
	b.WriteString("Reference the contract clause numbers or text snippets that justify your decision.\n")
	b.WriteString("Return markdown with sections: Compliance Overview, Line Item Review, Risks & Follow-up.\n")
	b.WriteString("Each charge_items entry includes a 'category' flag (either 'charge' or 'possible_charge'); treat 'possible_charge' rows cautiously and mark them Needs review unless supported by the contract.\n")
	b.WriteString("Under Line Item Review, render a markdown table with columns: Sheet, Line, Invoice Details, Contract Alignment, Status, Confidence.\n")
	b.WriteString("If exact matches are unavailable, infer the most plausible contract condition and indicate it explicitly.\n")
	b.WriteString("If information is missing to decide, mark Status as 'Needs review' but still offer your best professional judgment.\n")
	b.WriteString("Contract summary:\n```yaml\n")
	b.WriteString(contractSummary)
	b.WriteString("\n```\n")

	if invoiceSummary != "" {
		b.WriteString("Invoice summary (with charge_items for billable rows and metadata_preview for contextual lines):\n```yaml\n")
		b.WriteString(invoiceSummary)
		b.WriteString("\n```\n")
		b.WriteString("Focus exclusively on charge_items when making compliance decisions. Use metadata_preview only when it clarifies context.\n")
		b.WriteString("If a contract clause cannot be found, hypothesize a reasonable clause based on similar terms in the contract summary.\n")
	}

	return []aicore.Message{
		{Role: "system", Content: SystemMessage},
		{Role: "user", Content: b.String()},
	}
}

// Recommendation builds the stage-two prompt: actionable follow-up steps
// derived from the comparison review.
func Recommendation(comparison string) []aicore.Message {
	var b strings.Builder

	b.WriteString("Below is a completed contract compliance review of an invoice.\n")
	b.WriteString("Write a recommendation memo for the accounts payable team.\n")
	b.WriteString("Return markdown with sections: Summary Judgment, Recommended Actions, Items Requiring Escalation.\n")
	b.WriteString("Recommended Actions must be a numbered list ordered by urgency.\n")
	b.WriteString("Only escalate items the review marked Non-compliant or Needs review.\n")
	b.WriteString("Compliance review:\n```markdown\n")
	b.WriteString(comparison)
	b.WriteString("\n```\n")

	return []aicore.Message{
		{Role: "system", Content: SystemMessage},
		{Role: "user", Content: b.String()},
	}
}

// Tally builds the stage-three prompt: a machine-readable verdict count
// extracted from the comparison review.
func Tally(comparison string) []aicore.Message {
	var b strings.Builder

	b.WriteString("Below is a completed contract compliance review of an invoice.\n")
	b.WriteString("Count the line items by verdict.\n")
	b.WriteString("Respond with ONLY a JSON object of the form ")
	b.WriteString(`{"compliant": 0, "non_compliant": 0, "needs_review": 0}`)
	b.WriteString(" and no surrounding prose.\n")
	b.WriteString("Compliance review:\n```markdown\n")
	b.WriteString(comparison)
	b.WriteString("\n```\n")

	return []aicore.Message{
		{Role: "system", Content: SystemMessage},
		{Role: "user", Content: b.String()},
	}
}
