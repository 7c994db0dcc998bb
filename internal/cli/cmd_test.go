package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/config"
	"github.com/CBirkbeck/modulechoices/internal/planner"
	"github.com/CBirkbeck/modulechoices/internal/repository"
	"github.com/CBirkbeck/modulechoices/internal/service"
	"github.com/CBirkbeck/modulechoices/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hard    = "BEFORE TAKING THIS MODULE YOU MUST TAKE "
	exclude = "IN TAKING THIS MODULE YOU CANNOT TAKE "
)

var fixedNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func testCatalogue() *catalogue.File {
	return testutil.NewTestCatalogue(
		testutil.NewTestModule("BASE", 1),
		testutil.NewTestModule("NEWONLY", 1, testutil.WithAvailableYears("2025/6")),
		testutil.NewTestModule("ADV", 2, testutil.WithRules(hard+"BASE")),
		testutil.NewTestModule("ALT", 2, testutil.WithRules(exclude+"ADV")),
		testutil.NewTestModule("GHOSTLY", 3, testutil.WithRules(hard+"VANISHED")),
	)
}

func newTestServices(t *testing.T, f *catalogue.File) (service.PlannerService, service.PlanService) {
	t.Helper()
	database := testutil.NewTestDB(t)
	engine := planner.NewEngine(planner.DefaultLimits(), planner.CrossRangePolicy{})
	p, err := service.NewPlannerService(context.Background(), service.StaticLoader(f), engine, 2025)
	require.NoError(t, err)
	plans := service.NewPlanService(repository.NewSQLitePlanRepo(database), testutil.NewTestUoW(database), p, f.Course)
	return p, plans
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	p, plans := newTestServices(t, testCatalogue())
	return &App{
		Planner: p,
		Plans:   plans,
		Config:  config.DefaultConfig(),
		Now:     func() time.Time { return fixedNow },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- Browsing the catalogue ---

func TestOfferingsCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "offerings")
	require.NoError(t, err)
	assert.Contains(t, out, "BASE@Y1")
	assert.Contains(t, out, "ADV@Y2")
	assert.Contains(t, out, "GHOSTLY@Y3")

	out, err = executeCmd(t, app, "offerings", "--year", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "BASE@Y1")
	assert.Contains(t, out, "ALT@Y2")
}

func TestOfferingsCmd_EntryFlagChangesVisibility(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "--entry", "2024-25", "offerings", "--year", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "BASE@Y1")
	assert.NotContains(t, out, "NEWONLY@Y1")
}

func TestOfferingsCmd_RejectsBadYear(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "offerings", "--year", "5")
	assert.Error(t, err)
}

func TestShowCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "show", "BASE")
	require.NoError(t, err)
	assert.Contains(t, out, "BASE@Y1")
	assert.Contains(t, out, "REQUIRED BY")
	assert.Contains(t, out, "ADV@Y2")

	_, err = executeCmd(t, app, "show", "NOPE")
	assert.Error(t, err)
}

func TestGhostsCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "ghosts")
	require.NoError(t, err)
	assert.Contains(t, out, "VANISHED")
}

// --- Selection ---

func TestSelectCmd_PullsInPrerequisites(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "select", "ADV")
	require.NoError(t, err)
	assert.Contains(t, out, "ACCEPTED")
	assert.Contains(t, out, "BASE@Y1")
	assert.Equal(t, []string{"ADV@Y2", "BASE@Y1"}, app.Planner.Selection().UIDs())
}

func TestSelectCmd_ReportsRejections(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "select", "ADV")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "select", "ALT", "UNKNOWN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 selections rejected")
	assert.Contains(t, out, "REJECTED")
	assert.Contains(t, out, "exclusion")
	assert.False(t, app.Planner.Selection().Has("ALT@Y2"))
}

func TestDeselectCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "select", "ADV")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "deselect", "ADV")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	out, err = executeCmd(t, app, "deselect", "ADV")
	require.NoError(t, err)
	assert.Contains(t, out, "was not selected")
	assert.Equal(t, []string{"BASE@Y1"}, app.Planner.Selection().UIDs())
}

func TestStatusCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "select", "ADV")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "2025/6")
	assert.Contains(t, out, "YEAR 1")
	assert.Contains(t, out, "ADV@Y2")

	out, err = executeCmd(t, app, "status", "--year", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "YEAR 1")
}

func TestEntryCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "entry")
	require.NoError(t, err)
	assert.Contains(t, out, "2025/6")

	_, err = executeCmd(t, app, "select", "NEWONLY")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "entry", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "2024/5")
	assert.Contains(t, out, "NEWONLY@Y1")

	_, err = executeCmd(t, app, "entry", "soon")
	assert.Error(t, err)
}

// --- Plans ---

func TestPlanFlag_SavesAfterChangesAndRestores(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "--plan", "main", "select", "ADV")
	require.NoError(t, err)

	// Without --plan the change is not persisted.
	_, err = executeCmd(t, app, "deselect", "ADV")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "2025/6")

	_, err = executeCmd(t, app, "--plan", "main", "status")
	require.NoError(t, err)
	assert.Equal(t, []string{"ADV@Y2", "BASE@Y1"}, app.Planner.Selection().UIDs())
}

func TestPlanFlag_EntryOverridesSavedCohort(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "--plan", "main", "select", "BASE")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "--plan", "main", "--entry", "2024", "status")
	require.NoError(t, err)
	assert.Equal(t, "2024/5", app.Planner.EntryYear().Key())
}

func TestPlanSaveLoadDelete(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "select", "ADV")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "save", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved plan")
	assert.Contains(t, out, "2 modules")

	_, err = executeCmd(t, app, "deselect", "ADV", "BASE")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "plan", "load", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded plan")
	assert.Equal(t, 2, app.Planner.Selection().Len())

	out, err = executeCmd(t, app, "plan", "delete", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted plan")

	_, err = executeCmd(t, app, "plan", "load", "draft")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanSave_RequiresNameWhenNotInteractive(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "plan", "save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan name is required")
}

func TestPlanCmds_WithoutStore(t *testing.T) {
	app := testApp(t)
	app.Plans = nil

	_, err := executeCmd(t, app, "plan", "list")
	assert.Error(t, err)
}

// --- Catalogue tooling ---

func writeCatalogue(t *testing.T, dir, name string, f *catalogue.File) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, catalogue.WriteFile(path, f))
	return path
}

func TestCatalogueCombineCmd(t *testing.T) {
	dir := t.TempDir()
	older := writeCatalogue(t, dir, "2024.json", &catalogue.File{
		AcademicYear: "2024/5",
		Modules:      []catalogue.Module{testutil.NewTestModule("BASE", 1, testutil.WithAvailableYears())},
	})
	newer := writeCatalogue(t, dir, "2025.json", &catalogue.File{
		AcademicYear: "2025/6",
		Modules: []catalogue.Module{
			testutil.NewTestModule("BASE", 1, testutil.WithAvailableYears()),
			testutil.NewTestModule("ADV", 2, testutil.WithAvailableYears()),
		},
	})
	output := filepath.Join(dir, "combined.json")

	out, err := executeCmd(t, testApp(t), "catalogue", "combine", older, newer, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Combined 2 snapshots")

	combined, err := catalogue.LoadFile(output)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/5", "2025/6"}, combined.AcademicYears)
	require.Len(t, combined.Modules, 2)
	assert.Equal(t, []string{"2024/5", "2025/6"}, combined.Modules[0].AvailableYears)
}

func TestCatalogueCombineCmd_RequiresOutput(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "catalogue", "combine", "a.json")
	assert.Error(t, err)
}

func TestCatalogueCleanCmd(t *testing.T) {
	dir := t.TempDir()
	m := testutil.NewTestModule("BASE", 1)
	m.Description = "Contact someone@example.com for details"
	m.FullDetailText = "everything"
	path := writeCatalogue(t, dir, "modules.json", testutil.NewTestCatalogue(m))

	out, err := executeCmd(t, testApp(t), "catalogue", "clean", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleaned 1 modules")

	cleaned, err := catalogue.LoadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, cleaned.Modules[0].Description, "@example.com")
	assert.Empty(t, cleaned.Modules[0].FullDetailText)
}

func TestCatalogueCheckCmd(t *testing.T) {
	dir := t.TempDir()
	good := writeCatalogue(t, dir, "good.json", testCatalogue())

	out, err := executeCmd(t, testApp(t), "catalogue", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.json")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"modules":[{"module_code":"X","year":"Year 9U","credits":0}]}`), 0o644))
	out, err = executeCmd(t, testApp(t), "catalogue", "check", bad)
	require.Error(t, err)
	assert.Contains(t, out, "credits must be positive")
}

func TestCatalogueCheckCmd_UsesCatalogueFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalogue(t, dir, "flagged.json", testCatalogue())

	out, err := executeCmd(t, testApp(t), "--catalogue", path, "catalogue", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "flagged.json")
}

const scrapeProfile = `<html><body>
<h1>MASTER OF MATHEMATICS - 2025/6</h1>
<h2>Year 2U</h2>
<h4>Options Range A</h4>
<table class="sv-table"><tbody>
<tr>
  <td><span class="sv-visible-print-inline">MTHA5002B</span></td>
  <td><span class="tablesaw-cell-content">Algebra</span></td>
  <td><span class="tablesaw-cell-content">Exam</span></td>
  <td><span class="tablesaw-cell-content">15</span></td>
  <td><span class="tablesaw-cell-content">SEM2</span></td>
  <td><span class="tablesaw-cell-content"></span></td>
</tr>
</tbody></table>
</body></html>`

const scrapeDetail = `<html><body>
<table class="sv-table"><caption>Module Rules</caption><tbody>
<tr><td>BEFORE TAKING THIS MODULE YOU MUST TAKE MTHA4001Y</td></tr>
</tbody></table>
</body></html>`

func TestScrapeCmd(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.html")
	require.NoError(t, os.WriteFile(profile, []byte(scrapeProfile), 0o644))
	details := filepath.Join(dir, "details")
	require.NoError(t, os.MkdirAll(details, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(details, "MTHA5002B.html"), []byte(scrapeDetail), 0o644))
	output := filepath.Join(dir, "2025.json")

	out, err := executeCmd(t, testApp(t), "scrape", profile, "--details", details, "-o", output, "--school", "MTH")
	require.NoError(t, err)
	assert.Contains(t, out, "2025/6 snapshot with 1 modules (1 with details)")

	snap, err := catalogue.LoadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "MTH", snap.School)
	assert.Equal(t, "2025-09-01 12:00:00", snap.ScrapedAt)
	require.Len(t, snap.Modules, 1)
	assert.Equal(t, []string{"MTHA4001Y"}, snap.Modules[0].PrerequisiteCodes)
}

// --- Wiring ---

func TestSession_OpensCatalogueFromFlag(t *testing.T) {
	var opened []string
	app := &App{
		Config: config.DefaultConfig(),
		Open: func(ctx context.Context, path string) (service.PlannerService, service.PlanService, error) {
			opened = append(opened, path)
			p, plans := newTestServices(t, testCatalogue())
			return p, plans, nil
		},
	}

	_, err := executeCmd(t, app, "--catalogue", "other.json", "ghosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.json"}, opened)

	// An already open planner is reused when no path is given.
	_, err = executeCmd(t, app, "ghosts")
	require.NoError(t, err)
	assert.Len(t, opened, 1)
}

func TestSession_NoCatalogue(t *testing.T) {
	_, err := executeCmd(t, &App{}, "offerings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalogue loaded")
}

func TestCohortFlag(t *testing.T) {
	var f cohortFlag
	assert.Equal(t, "", f.String())
	assert.Equal(t, "cohort", f.Type())

	require.NoError(t, f.Set("2025-26"))
	assert.Equal(t, "2025/6", f.String())
	assert.Error(t, f.Set("next year"))
}

func TestCohortOptions(t *testing.T) {
	opts := cohortOptions(2025)
	require.Len(t, opts, 5)
	assert.EqualValues(t, 2026, opts[0].Value)
	assert.Contains(t, opts[1].Key, "(current)")
	assert.EqualValues(t, 2022, opts[4].Value)
}

func TestValidatePlanName(t *testing.T) {
	assert.Error(t, validatePlanName("  "))
	assert.NoError(t, validatePlanName("main"))
}
