package domain

// RuleClause is one parsed rule statement. For exclusions only Excluded is
// set; for the other kinds OrGroups holds AND-groups joined by OR.
type RuleClause struct {
	Kind     RuleKind
	Excluded []string
	OrGroups [][]string
}

// IsExclusion reports whether the clause forbids rather than requires.
func (c RuleClause) IsExclusion() bool {
	return c.Kind == RuleExclusion
}

// Codes returns every referenced code once, in first-seen order.
func (c RuleClause) Codes() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(code string) {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	for _, code := range c.Excluded {
		add(code)
	}
	for _, group := range c.OrGroups {
		for _, code := range group {
			add(code)
		}
	}
	return out
}
