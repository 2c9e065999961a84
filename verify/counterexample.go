package verify

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Counterexample is the witness model a Disproven verdict carries: the
// variable assignment (or interval endpoints) under which the obligation's
// predicate evaluates false, formatted as strings so it is trivially
// JSON-able for a report.
type Counterexample struct {
	Model map[string]string
}

// Query lets a diagnostic consumer JQ-query a counterexample/model map
// without the core needing a bespoke path language of its own — grounded on
// the teacher's executor/builtin JQ transform node, repointed from workflow
// output transformation to counterexample inspection.
func (c Counterexample) Query(jqExpr string) (interface{}, error) {
	query, err := gojq.Parse(jqExpr)
	if err != nil {
		return nil, fmt.Errorf("parsing jq expression: %w", err)
	}
	input := make(map[string]interface{}, len(c.Model))
	for k, v := range c.Model {
		input[k] = v
	}
	iter := query.Run(input)
	var results []interface{}
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("evaluating jq expression: %w", err)
		}
		results = append(results, v)
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}
