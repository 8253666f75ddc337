package domain

// FilterOperator is the comparison operator of a payload filter.
type FilterOperator string

const (
	OpEqual              FilterOperator = "eq"
	OpNotEqual           FilterOperator = "neq"
	OpGreaterThan        FilterOperator = "gt"
	OpGreaterThanOrEqual FilterOperator = "gte"
	OpLessThan           FilterOperator = "lt"
	OpLessThanOrEqual    FilterOperator = "lte"
	OpIn                 FilterOperator = "in"
	OpNotIn              FilterOperator = "nin"
)

// Negative reports whether the operator routes to a must-not clause.
func (op FilterOperator) Negative() bool {
	return op == OpNotEqual || op == OpNotIn
}

func (op FilterOperator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual,
		OpLessThan, OpLessThanOrEqual, OpIn, OpNotIn:
		return true
	}
	return false
}

// Filter is one payload filter condition. A sequence of filters is AND-combined
// by the repository.
type Filter struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}
