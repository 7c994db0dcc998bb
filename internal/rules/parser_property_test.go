package rules

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var codeGen = gen.RegexMatch(`[A-Z]{3,4}[0-9]{4}[A-Z]`)

// TestParse_Property_RoundTripsGroups renders arbitrary AND/OR groups as a
// hard prerequisite statement and checks the parser recovers them.
func TestParse_Property_RoundTripsGroups(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("groups survive render and parse", prop.ForAll(
		func(raw [][]string) bool {
			var groups [][]string
			for _, g := range raw {
				if len(g) > 0 {
					groups = append(groups, g)
				}
			}
			if len(groups) == 0 {
				return true
			}

			parts := make([]string, len(groups))
			for i, g := range groups {
				parts[i] = strings.Join(g, " AND TAKE ")
			}
			text := "BEFORE TAKING THIS MODULE YOU MUST TAKE " + strings.Join(parts, " OR TAKE ")

			clause, ok := Parse(text)
			if !ok || len(clause.OrGroups) != len(groups) {
				return false
			}
			for i := range groups {
				if strings.Join(clause.OrGroups[i], ",") != strings.Join(groups[i], ",") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.SliceOf(codeGen)),
	))

	properties.TestingRun(t)
}

// TestParse_Property_TotalOnArbitraryText checks that text without a known
// prefix never yields a clause and never panics.
func TestParse_Property_TotalOnArbitraryText(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("no prefix means no clause", prop.ForAll(
		func(s string) bool {
			_, ok := Parse(s)
			return !ok
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
