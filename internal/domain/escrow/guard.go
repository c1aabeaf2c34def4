package escrow

import (
	"errors"
	"strings"

	"github.com/Knetic/govaluate"
)

// EvaluateCondition evaluates a named precondition against the supplied
// business-condition map. A bare name is a direct lookup; anything else
// is treated as a boolean expression over the map, so compound guards
// like "cancel_requested || cancel_approved" work. Empty condition
// returns true.
func EvaluateCondition(condition string, conditions map[string]bool) (bool, error) {
	cond := strings.TrimSpace(condition)
	if cond == "" {
		return true, nil
	}
	switch strings.ToLower(cond) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if isBareName(cond) {
		return conditions[cond], nil
	}

	expr, err := govaluate.NewEvaluableExpression(cond)
	if err != nil {
		return false, err
	}
	params := make(map[string]interface{}, len(conditions))
	for k, v := range conditions {
		params[k] = v
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		return false, err
	}
	switch v := result.(type) {
	case bool:
		return v, nil
	default:
		return false, errors.New("condition did not evaluate to boolean")
	}
}

func isBareName(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
