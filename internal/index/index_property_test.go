package index

import (
	"fmt"
	"strings"
	"testing"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/testutil"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propModules = 6

// randomCatalogue gives module i an exclusion or prerequisite rule on each
// referenced index. Indices at or past propModules name codes that are not
// in the catalogue.
func randomCatalogue(excl, prereq [][]int) *catalogue.File {
	code := func(i int) string { return fmt.Sprintf("MOD%d", i) }

	var mods []catalogue.Module
	for i := 0; i < propModules; i++ {
		var texts []string
		if i < len(excl) && len(excl[i]) > 0 {
			var codes []string
			for _, j := range excl[i] {
				codes = append(codes, code(j))
			}
			texts = append(texts, exclude+strings.Join(codes, " OR TAKE "))
		}
		if i < len(prereq) && len(prereq[i]) > 0 {
			var codes []string
			for _, j := range prereq[i] {
				codes = append(codes, code(j))
			}
			texts = append(texts, hard+strings.Join(codes, " AND TAKE "))
		}
		mods = append(mods, testutil.NewTestModule(code(i), 1+i%4, testutil.WithRules(texts...)))
	}
	return testutil.NewTestCatalogue(mods...)
}

var refsGen = gen.SliceOfN(propModules, gen.SliceOf(gen.IntRange(0, propModules+2)))

func TestBuild_Property_ExclusionSymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every exclusion peer names the offering back", prop.ForAll(
		func(excl, prereq [][]int) bool {
			idx := Build(randomCatalogue(excl, prereq), 2025)
			for _, o := range idx.Offerings() {
				for _, uid := range o.ExclusionPeers {
					peer, ok := idx.Get(uid)
					if !ok || !peer.HasExclusionPeer(o.UID) {
						return false
					}
				}
				for _, uid := range o.Dependents {
					if _, ok := idx.Get(uid); !ok {
						return false
					}
				}
			}
			return true
		},
		refsGen, refsGen,
	))

	properties.TestingRun(t)
}

func TestBuild_Property_GhostIffUnresolved(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ghost set is exactly the referenced codes with no offering", prop.ForAll(
		func(excl, prereq [][]int) bool {
			idx := Build(randomCatalogue(excl, prereq), 2025)

			referenced := make(map[string]bool)
			for _, o := range idx.Offerings() {
				for _, c := range o.Rules {
					for _, code := range c.Codes() {
						referenced[code] = true
					}
				}
			}
			for code := range referenced {
				if idx.IsGhost(code) != (len(idx.ByCode(code)) == 0) {
					return false
				}
			}
			for _, code := range idx.Ghosts() {
				if !referenced[code] {
					return false
				}
			}
			return true
		},
		refsGen, refsGen,
	))

	properties.TestingRun(t)
}
