// Package workflow provides a deterministic sequential stage runner for
// chained model-analysis calls over a shared state record.
package workflow

// Field names the typed slots of a State. Each stage declares which fields
// it reads and the single field it writes.
type Field string

const (
	FieldContractSummary Field = "contract_summary"
	FieldInvoiceSummary  Field = "invoice_summary"
	FieldComparison      Field = "comparison"
	FieldRecommendation  Field = "recommendation"
	FieldTally           Field = "tally"
)

// State is the shared record flowing through a workflow chain. All values
// are serialized text (YAML summaries in, markdown and JSON out).
type State struct {
	values map[Field]string
}

// NewState creates a State seeded with the given input fields.
func NewState(inputs map[Field]string) *State {
	values := make(map[Field]string, len(inputs))
	for field, value := range inputs {
		values[field] = value
	}
	return &State{values: values}
}

// Get returns the value of a field, or the empty string when unset.
func (s *State) Get(field Field) string {
	return s.values[field]
}

// Has reports whether a field has been set.
func (s *State) Has(field Field) bool {
	_, ok := s.values[field]
	return ok
}

func (s *State) set(field Field, value string) {
	s.values[field] = value
}
