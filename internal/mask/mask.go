// Package mask replaces known-variable substrings in raw log lines with
// named placeholder tokens before tokenization.
//
// Rules are declarative (pattern, placeholder-name) pairs applied in
// configured order; earlier rules can consume spans that later rules
// would otherwise match. Masking is deterministic and stateless: the
// only failure mode is a malformed pattern, which is reported when the
// rule table is compiled, never per line.
package mask

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one ordered pattern/placeholder pair. Rules are captured in
// engine snapshots, so the field names are part of the snapshot format.
type Rule struct {
	Pattern string `json:"pattern"`
	Name    string `json:"name"`
}

type compiledRule struct {
	re          *regexp.Regexp
	placeholder string
}

// Masker applies an ordered rule table to raw lines.
type Masker struct {
	rules []compiledRule
}

// New compiles the given rules in order. A malformed pattern or empty
// placeholder name fails here, at configuration time.
func New(rules []Rule) (*Masker, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("masking rule %d: empty placeholder name", i)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("masking rule %d (%s): %w", i, r.Name, err)
		}
		compiled = append(compiled, compiledRule{
			re:          re,
			placeholder: "<" + r.Name + ">",
		})
	}
	return &Masker{rules: compiled}, nil
}

// ResolveNames expands built-in rule names into rules, appending any
// custom rules after them. Unknown names are an error rather than being
// silently dropped: a typo here silently changes mining results.
func ResolveNames(names []string, custom []Rule) ([]Rule, error) {
	rules := make([]Rule, 0, len(names)+len(custom))
	for _, name := range names {
		builtIn, ok := BuiltInRules[name]
		if !ok {
			return nil, fmt.Errorf("unknown masking rule %q", name)
		}
		rules = append(rules, Rule{Pattern: builtIn.Pattern, Name: builtIn.Token})
	}
	return append(rules, custom...), nil
}

// FromNames builds a Masker from built-in rule names plus custom rules
// appended after them.
func FromNames(names []string, custom []Rule) (*Masker, error) {
	rules, err := ResolveNames(names, custom)
	if err != nil {
		return nil, err
	}
	return New(rules)
}

// Mask applies every rule in order and returns the masked line.
func (m *Masker) Mask(raw string) string {
	masked := raw
	for _, r := range m.rules {
		masked = r.re.ReplaceAllString(masked, r.placeholder)
	}
	return masked
}

// IsPlaceholder reports whether a token was produced by masking (or is
// the generalization wildcard). Placeholders render as <NAME>.
func IsPlaceholder(token string) bool {
	return len(token) > 2 && strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">")
}
