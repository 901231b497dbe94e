package enums

// CriteriaOperator is a comparison operator in a validation criterion.
type CriteriaOperator string

const (
	OperatorGT  CriteriaOperator = "gt"
	OperatorGTE CriteriaOperator = "gte"
	OperatorLT  CriteriaOperator = "lt"
	OperatorLTE CriteriaOperator = "lte"
	OperatorEQ  CriteriaOperator = "eq"
)

// IsValid reports whether the operator is supported by the criteria evaluator.
func (o CriteriaOperator) IsValid() bool {
	switch o {
	case OperatorGT, OperatorGTE, OperatorLT, OperatorLTE, OperatorEQ:
		return true
	default:
		return false
	}
}
