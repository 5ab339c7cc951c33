// Package query narrows structured command output with JMESPath
// expressions, e.g. "[?tier=='ultra'].user_email".
package query

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
)

// Expression is a compiled JMESPath expression
type Expression struct {
	source string
	jp     *jmespath.JMESPath
}

// Compile parses expr. An empty expression returns nil, which Apply treats
// as the identity.
func Compile(expr string) (*Expression, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	return &Expression{source: expr, jp: jp}, nil
}

// String returns the expression as written
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Apply evaluates the expression against v, using its JSON field names.
// The result is made of plain maps, slices and scalars.
func (e *Expression) Apply(v any) (any, error) {
	if e == nil {
		return v, nil
	}

	// JMESPath walks generic values, so round-trip through the JSON tags
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value for query: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode value for query: %w", err)
	}

	out, err := e.jp.Search(generic)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", e.source, err)
	}
	return out, nil
}
