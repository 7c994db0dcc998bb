package rules

import (
	"testing"

	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AndBindsTighterThanOr(t *testing.T) {
	clause, ok := Parse("BEFORE TAKING THIS MODULE YOU MUST TAKE A AND TAKE B OR TAKE C")
	require.True(t, ok)

	assert.Equal(t, domain.RuleHardPrereq, clause.Kind)
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}}, clause.OrGroups)
	assert.Empty(t, clause.Excluded)
	assert.Equal(t, []string{"A", "B", "C"}, clause.Codes())
}

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		text string
		kind domain.RuleKind
	}{
		{"IN TAKING THIS MODULE YOU CANNOT TAKE MTHA5001A", domain.RuleExclusion},
		{"BEFORE OR WHILE TAKING THIS MODULE YOU MUST TAKE MTHA5001A", domain.RuleSoftPrereq},
		{"WHILE TAKING THIS MODULE YOU MUST TAKE MTHA5001A", domain.RuleCorequisite},
		{"BEFORE TAKING THIS MODULE YOU MUST TAKE MTHA5001A", domain.RuleHardPrereq},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			clause, ok := Parse(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.kind, clause.Kind)
			assert.Equal(t, []string{"MTHA5001A"}, clause.Codes())
		})
	}
}

func TestParse_PrefixIsCaseAndWhitespaceInsensitive(t *testing.T) {
	clause, ok := Parse("  before   taking this module\n you must take  mtha4001y ")
	require.True(t, ok)
	assert.Equal(t, domain.RuleHardPrereq, clause.Kind)
	assert.Equal(t, [][]string{{"MTHA4001Y"}}, clause.OrGroups)
}

func TestParse_ExclusionIsFlatList(t *testing.T) {
	clause, ok := Parse("IN TAKING THIS MODULE YOU CANNOT TAKE CMP-5015A OR TAKE MTHA5002B")
	require.True(t, ok)

	assert.Equal(t, domain.RuleExclusion, clause.Kind)
	assert.Equal(t, []string{"CMP-5015A", "MTHA5002B"}, clause.Excluded)
	assert.Nil(t, clause.OrGroups)
}

func TestParse_UnrecognisedTextYieldsNoClause(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"Students must have a good grasp of calculus",
		"TAKING THIS MODULE YOU MUST TAKE A",
		"BEFORE TAKING THIS MODULE YOU MUST TAKE",
		"BEFORE TAKING THIS MODULE YOU MUST TAKEN A",
	} {
		_, ok := Parse(text)
		assert.False(t, ok, "text %q should not parse", text)
	}
}

func TestParse_StripsTrailingPunctuation(t *testing.T) {
	clause, ok := Parse("WHILE TAKING THIS MODULE YOU MUST TAKE MTHB5007B.")
	require.True(t, ok)
	assert.Equal(t, [][]string{{"MTHB5007B"}}, clause.OrGroups)
}

func TestStatements_SplitsAtEachPrefix(t *testing.T) {
	text := "BEFORE TAKING THIS MODULE YOU MUST TAKE A IN TAKING THIS MODULE YOU CANNOT TAKE B " +
		"BEFORE OR WHILE TAKING THIS MODULE YOU MUST TAKE C"

	stmts := Statements(text)

	require.Len(t, stmts, 3)
	assert.Equal(t, "BEFORE TAKING THIS MODULE YOU MUST TAKE A", stmts[0])
	assert.Equal(t, "IN TAKING THIS MODULE YOU CANNOT TAKE B", stmts[1])
	assert.Equal(t, "BEFORE OR WHILE TAKING THIS MODULE YOU MUST TAKE C", stmts[2])
}

func TestStatements_KeepsLeadingProse(t *testing.T) {
	stmts := Statements("Note: BEFORE TAKING THIS MODULE YOU MUST TAKE A")
	require.Len(t, stmts, 2)
	assert.Equal(t, "NOTE:", stmts[0])
}

func TestParseAll_Conjunctive(t *testing.T) {
	clauses := ParseAll([]string{
		"BEFORE TAKING THIS MODULE YOU MUST TAKE A OR TAKE B",
		"IN TAKING THIS MODULE YOU CANNOT TAKE C",
		"no rule here",
		"",
	})

	require.Len(t, clauses, 2)
	assert.Equal(t, domain.RuleHardPrereq, clauses[0].Kind)
	assert.Equal(t, domain.RuleExclusion, clauses[1].Kind)
}

func TestParseAll_Nil(t *testing.T) {
	assert.Empty(t, ParseAll(nil))
}
