package normalize

import (
	"fmt"
	"strings"
)

// Category is the classification of one spreadsheet row.
type Category string

const (
	CategoryEmpty          Category = "empty"
	CategoryMetadata       Category = "metadata"
	CategoryPossibleCharge Category = "possible_charge"
	CategoryCharge         Category = "charge"
)

// amountKeywords mark a field as billing-related when found in a key or
// value, case-insensitive.
var amountKeywords = []string{
	"amount", "qty", "quantity", "total", "price", "fee",
	"charge", "rate", "cost", "value", "tax", "duty",
}

// Classify categorizes a row by its normalized fields. Rows with no usable
// fields are empty; rows with no numeric fields are metadata. Remaining rows
// are charges when any billing signal fires (keyword in a key, keyword in a
// value, or a currency symbol in a value) or when at least two fields are
// numeric; otherwise possible charges needing review.
func Classify(row Fields) Category {
	normalized := NormalizeFields(row)
	if len(normalized) == 0 {
		return CategoryEmpty
	}

	numericCount := 0
	for _, field := range normalized {
		if IsNumeric(field.Value) {
			numericCount++
		}
	}
	if numericCount == 0 {
		return CategoryMetadata
	}

	if hasBillingSignal(row) || numericCount >= 2 {
		return CategoryCharge
	}

	return CategoryPossibleCharge
}

func hasBillingSignal(row Fields) bool {
	for _, field := range row {
		key := strings.ToLower(field.Name)
		value := strings.ToLower(fmt.Sprint(field.Value))

		for _, keyword := range amountKeywords {
			if strings.Contains(key, keyword) || strings.Contains(value, keyword) {
				return true
			}
		}
		for _, symbol := range currencySymbols {
			if strings.Contains(value, symbol) {
				return true
			}
		}
	}

	return false
}
