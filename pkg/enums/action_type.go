package enums

import "strings"

// DefaultActionType is the conversion action assumed when a request does not
// name one. Conversion maps are keyed by the raw Facebook action type, so
// anything beyond trimming would lose information.
const DefaultActionType = "lead"

func NormalizeActionType(value string) string {
	return strings.TrimSpace(value)
}
