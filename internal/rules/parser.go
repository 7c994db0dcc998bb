// Package rules turns catalogue rule statements into typed constraint clauses.
//
// The grammar is deliberately small: one of four fixed sentence prefixes,
// followed by codes joined with "AND TAKE" and "OR TAKE", where AND binds
// tighter than OR. Text that does not start with a known prefix imposes no
// constraint.
package rules

import (
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/domain"
)

type prefix struct {
	words []string
	kind  domain.RuleKind
}

// Order matters: the soft prerequisite prefix contains the corequisite one.
var prefixes = []prefix{
	{strings.Fields("IN TAKING THIS MODULE YOU CANNOT TAKE"), domain.RuleExclusion},
	{strings.Fields("BEFORE OR WHILE TAKING THIS MODULE YOU MUST TAKE"), domain.RuleSoftPrereq},
	{strings.Fields("WHILE TAKING THIS MODULE YOU MUST TAKE"), domain.RuleCorequisite},
	{strings.Fields("BEFORE TAKING THIS MODULE YOU MUST TAKE"), domain.RuleHardPrereq},
}

const (
	orConnective  = " OR TAKE "
	andConnective = " AND TAKE "
	takeWord      = "TAKE "
)

// Parse parses a single rule statement. It returns false for anything that is
// not one of the four recognised statement forms, including empty text.
func Parse(text string) (domain.RuleClause, bool) {
	words := strings.Fields(strings.ToUpper(text))
	p, n := matchPrefix(words, 0)
	if p == nil {
		return domain.RuleClause{}, false
	}
	body := strings.Join(words[n:], " ")

	if p.kind == domain.RuleExclusion {
		excluded := splitMembers(body, orConnective)
		if len(excluded) == 0 {
			return domain.RuleClause{}, false
		}
		return domain.RuleClause{Kind: p.kind, Excluded: excluded}, true
	}

	var groups [][]string
	for _, group := range strings.Split(body, orConnective) {
		members := splitMembers(group, andConnective)
		if len(members) > 0 {
			groups = append(groups, members)
		}
	}
	if len(groups) == 0 {
		return domain.RuleClause{}, false
	}
	return domain.RuleClause{Kind: p.kind, OrGroups: groups}, true
}

// ParseAll parses every statement found in texts. Each entry may itself hold
// several statements; they are split wherever a recognised prefix begins.
// The returned clauses apply conjunctively.
func ParseAll(texts []string) []domain.RuleClause {
	var clauses []domain.RuleClause
	for _, text := range texts {
		for _, stmt := range Statements(text) {
			if clause, ok := Parse(stmt); ok {
				clauses = append(clauses, clause)
			}
		}
	}
	return clauses
}

// Statements splits text into individual statements at each recognised
// prefix. Leading text before the first prefix is returned as its own
// statement so callers can see it, though it will not parse.
func Statements(text string) []string {
	words := strings.Fields(strings.ToUpper(text))
	if len(words) == 0 {
		return nil
	}

	var stmts []string
	start := 0
	for i := 0; i < len(words); {
		p, n := matchPrefix(words, i)
		if p == nil {
			i++
			continue
		}
		if i > start {
			stmts = append(stmts, strings.Join(words[start:i], " "))
		}
		start = i
		i = n
	}
	return append(stmts, strings.Join(words[start:], " "))
}

// matchPrefix reports the prefix starting at words[at] and the index just
// past it.
func matchPrefix(words []string, at int) (*prefix, int) {
	for i := range prefixes {
		p := &prefixes[i]
		if at+len(p.words) > len(words) {
			continue
		}
		matched := true
		for j, w := range p.words {
			if words[at+j] != w {
				matched = false
				break
			}
		}
		if matched {
			return p, at + len(p.words)
		}
	}
	return nil, at
}

func splitMembers(segment, connective string) []string {
	var out []string
	for _, part := range strings.Split(" "+segment+" ", connective) {
		code := cleanCode(part)
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}

func cleanCode(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, takeWord)
	return strings.Trim(s, " .,;")
}
