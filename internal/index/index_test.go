package index

import (
	"testing"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hard    = "BEFORE TAKING THIS MODULE YOU MUST TAKE "
	exclude = "IN TAKING THIS MODULE YOU CANNOT TAKE "
)

func sampleCatalogue() *catalogue.File {
	return testutil.NewTestCatalogue(
		testutil.NewTestModule("MTHA4001Y", 1, testutil.WithSection("Compulsory Modules"), testutil.WithCredits(20), testutil.WithPeriod("YEAR")),
		testutil.NewTestModule("MTHA5001A", 2, testutil.WithRules(hard+"MTHA4001Y")),
		testutil.NewTestModule("MTHA5002A", 2, testutil.WithRules(exclude+"MTHA5003A OR TAKE GONE9999X")),
		testutil.NewTestModule("MTHA5003A", 2),
		testutil.NewTestModule("MTHA5003A", 3, testutil.WithSection("Options Range C")),
	)
}

func TestBuild_Basics(t *testing.T) {
	idx := Build(sampleCatalogue(), 2025)

	assert.Equal(t, 5, idx.Len())
	assert.Equal(t, calendar.AcademicYear(2025), idx.Entry())

	o, ok := idx.Get("MTHA5001A@Y2")
	require.True(t, ok)
	assert.Equal(t, 2, o.ProgramYear)
	assert.Equal(t, domain.SectionRangeA, o.SectionKey)
	assert.Equal(t, domain.PeriodFirstTerm, o.Period)
	require.Len(t, o.Rules, 1)
	assert.Equal(t, [][]string{{"MTHA4001Y"}}, o.Rules[0].OrGroups)

	offs := idx.ByCode("MTHA5003A")
	require.Len(t, offs, 2)
	assert.Equal(t, 2, offs[0].ProgramYear)
	assert.Equal(t, 3, offs[1].ProgramYear)

	_, ok = idx.Get("NOPE@Y1")
	assert.False(t, ok)
}

func TestBuild_GhostsAreUnresolvedReferences(t *testing.T) {
	idx := Build(sampleCatalogue(), 2025)

	assert.Equal(t, []string{"GONE9999X"}, idx.Ghosts())
	assert.True(t, idx.IsGhost("GONE9999X"))
	assert.False(t, idx.IsGhost("MTHA4001Y"))
}

func TestBuild_ExclusionIsSymmetric(t *testing.T) {
	idx := Build(sampleCatalogue(), 2025)

	declarer, _ := idx.Get("MTHA5002A@Y2")
	assert.Equal(t, []string{"MTHA5003A@Y2", "MTHA5003A@Y3"}, declarer.ExclusionPeers)

	for _, uid := range []string{"MTHA5003A@Y2", "MTHA5003A@Y3"} {
		peer, _ := idx.Get(uid)
		assert.True(t, peer.HasExclusionPeer("MTHA5002A@Y2"), uid)
		assert.Empty(t, peer.Dependents, "exclusions do not create dependents")
	}
}

func TestBuild_DependentsPointBackAtRequirer(t *testing.T) {
	idx := Build(sampleCatalogue(), 2025)

	target, _ := idx.Get("MTHA4001Y@Y1")
	assert.Equal(t, []string{"MTHA5001A@Y2"}, target.Dependents)

	requirer, _ := idx.Get("MTHA5001A@Y2")
	assert.Empty(t, requirer.Dependents)
}

func TestBuild_DuplicateExclusionDeclarationIsIdempotent(t *testing.T) {
	f := testutil.NewTestCatalogue(
		testutil.NewTestModule("A", 2, testutil.WithRules(exclude+"B", exclude+"B")),
		testutil.NewTestModule("B", 2, testutil.WithRules(exclude+"A")),
	)
	idx := Build(f, 2025)

	a, _ := idx.Get("A@Y2")
	b, _ := idx.Get("B@Y2")
	assert.Equal(t, []string{"B@Y2"}, a.ExclusionPeers)
	assert.Equal(t, []string{"A@Y2"}, b.ExclusionPeers)
}

func TestBuild_RulesFollowResolvedSnapshot(t *testing.T) {
	f := testutil.NewTestCatalogue(
		testutil.NewTestModule("OLD", 1),
		testutil.NewTestModule("NEW", 1),
		testutil.NewTestModule("M", 2,
			testutil.WithRules(hard+"NEW"),
			testutil.WithRulesForYear("2024/5", hard+"OLD"),
		),
	)

	// Entry 2025: year 2 is 2026/7, projected onto the 2024/5 snapshot.
	idx := Build(f, 2025)
	m, _ := idx.Get("M@Y2")
	assert.Equal(t, "2024/5", m.ResolvedYear)
	assert.Equal(t, [][]string{{"OLD"}}, m.Rules[0].OrGroups)
	old, _ := idx.Get("OLD@Y1")
	assert.Equal(t, []string{"M@Y2"}, old.Dependents)

	// Entry 2024: year 2 is 2025/6, which has no variant.
	rebuilt := Build(f, 2024)
	m, _ = rebuilt.Get("M@Y2")
	assert.Equal(t, "2025/6", m.ResolvedYear)
	assert.Equal(t, [][]string{{"NEW"}}, m.Rules[0].OrGroups)

	old, _ = rebuilt.Get("OLD@Y1")
	assert.Empty(t, old.Dependents, "edges from the previous build must not survive")
	fresh, _ := rebuilt.Get("NEW@Y1")
	assert.Equal(t, []string{"M@Y2"}, fresh.Dependents)
}

func TestBuild_EmptyYearVariantMeansNoRules(t *testing.T) {
	f := testutil.NewTestCatalogue(
		testutil.NewTestModule("A", 1),
		testutil.NewTestModule("M", 1,
			testutil.WithRules(hard+"A"),
			testutil.WithRulesForYear("2025/6"),
		),
	)
	m, _ := Build(f, 2025).Get("M@Y1")
	assert.Empty(t, m.Rules)
}

func TestBuild_SectionRangeSharedAcrossBucket(t *testing.T) {
	f := testutil.NewTestCatalogue(
		testutil.NewTestModule("A", 2, testutil.WithSection("Options Range B"), testutil.WithNotes("Students will select 30-45 credits")),
		testutil.NewTestModule("B", 2, testutil.WithSection("Options Range B")),
		testutil.NewTestModule("C", 3, testutil.WithSection("Options Range B")),
	)
	idx := Build(f, 2025)

	b, _ := idx.Get("B@Y2")
	require.NotNil(t, b.SectionRange)
	assert.Equal(t, 45, b.SectionRange.Max)
	assert.Equal(t, b.SectionRange, idx.SectionRange(domain.Bucket{ProgramYear: 2, Section: domain.SectionRangeB}))

	c, _ := idx.Get("C@Y3")
	assert.Nil(t, c.SectionRange, "range is per year of study")
}

func TestBuild_Visibility(t *testing.T) {
	f := testutil.NewTestCatalogue(
		testutil.NewTestModule("ONLY25", 1, testutil.WithAvailableYears("2025/6")),
		testutil.NewTestModule("GONE", 1, testutil.WithAvailableYears("2024/5"), testutil.Discontinued()),
	)

	idx := Build(f, 2025)
	only, _ := idx.Get("ONLY25@Y1")
	gone, _ := idx.Get("GONE@Y1")
	assert.True(t, only.Visible)
	assert.False(t, gone.Visible)

	idx = Build(f, 2024)
	only, _ = idx.Get("ONLY25@Y1")
	gone, _ = idx.Get("GONE@Y1")
	assert.False(t, only.Visible)
	assert.True(t, gone.Visible)
}

func TestBuild_SkipsUnusableRecords(t *testing.T) {
	f := testutil.NewTestCatalogue(
		testutil.NewTestModule("A", 1),
		testutil.NewTestModule("A", 1),
		testutil.NewTestModule("", 1),
		testutil.NewTestModule("B", 7),
	)
	idx := Build(f, 2025)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 3, idx.Skipped())
}

func TestLookup(t *testing.T) {
	f := testutil.NewTestCatalogue(
		testutil.NewTestModule("A", 1, testutil.WithAvailableYears("2099/0")),
		testutil.NewTestModule("A", 2),
	)
	idx := Build(f, 2025)

	o, ok := idx.Lookup("A@Y1")
	require.True(t, ok)
	assert.Equal(t, "A@Y1", o.UID)

	o, ok = idx.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "A@Y2", o.UID, "bare code prefers a visible offering")

	_, ok = idx.Lookup("Z")
	assert.False(t, ok)
}
