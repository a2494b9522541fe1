package drain

import "strings"

// Wildcard is the template token standing for "any value here". Masked
// placeholders like <NUM> stay distinct from it: they assert the value
// class, the wildcard asserts nothing.
const Wildcard = "<*>"

// Cluster is one mined template plus its running match count. Template
// length is fixed for the cluster's lifetime; lines of a different
// token count can never join it.
type Cluster struct {
	ID       int64
	Template []string
	Matches  int64
}

// TemplateString renders the template with tokens joined by single
// spaces, wildcards included verbatim.
func (c *Cluster) TemplateString() string {
	return strings.Join(c.Template, " ")
}

// clone returns a deep copy, used when handing clusters out of the
// engine so callers never alias live state.
func (c *Cluster) clone() Cluster {
	tokens := make([]string, len(c.Template))
	copy(tokens, c.Template)
	return Cluster{ID: c.ID, Template: tokens, Matches: c.Matches}
}
