package binding

import (
	"strings"

	"github.com/go-ivy/ivy/pkg/errors"
)

// Rule is one parsed binding clause, such as "class: done finished".
type Rule struct {
	// Name is the directive name without its trailing colon.
	Name string
	// Options are the positional arguments following the name.
	Options []string
	// Text is the clause as written, trimmed.
	Text string
}

// Arg returns option i, or def when the clause has fewer options.
func (r Rule) Arg(i int, def string) string {
	if i < 0 || i >= len(r.Options) {
		return def
	}
	return r.Options[i]
}

func (r Rule) String() string {
	if len(r.Options) == 0 {
		return r.Name + ":"
	}
	return r.Name + ": " + strings.Join(r.Options, " ")
}

// ParseRule parses a single clause.
func ParseRule(clause string) (Rule, error) {
	text := strings.TrimSpace(clause)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Rule{}, &errors.SyntaxError{Clause: text, Reason: "empty clause"}
	}
	name, ok := strings.CutSuffix(fields[0], ":")
	if !ok {
		return Rule{}, &errors.SyntaxError{Clause: text, Reason: "directive name must end with ':'"}
	}
	if name == "" {
		return Rule{}, &errors.SyntaxError{Clause: text, Reason: "missing directive name"}
	}
	r := Rule{Name: name, Text: text}
	if len(fields) > 1 {
		r.Options = fields[1:]
	}
	return r, nil
}

// ParseRules parses a binding attribute value into its clauses. Clauses are
// separated by ';' and blank clauses are ignored. The first malformed clause
// stops parsing.
func ParseRules(text string) ([]Rule, error) {
	var rules []Rule
	for _, clause := range strings.Split(text, ";") {
		if strings.TrimSpace(clause) == "" {
			continue
		}
		r, err := ParseRule(clause)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
