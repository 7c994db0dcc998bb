package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(year string, mods ...Module) *File {
	return &File{Course: "MMATH", AcademicYear: year, Modules: mods}
}

func mod(code string, year YearLabel, section string, rules ...string) Module {
	m := Module{ModuleCode: code, Year: year, Section: section, Credits: 20, Description: code}
	if len(rules) > 0 {
		m.ModuleRules = Texts(rules)
	}
	return m
}

func TestCombine_AccumulatesAvailableYears(t *testing.T) {
	out, err := Combine([]*File{
		snapshot("2025/6", mod("MTHA5001A", "Year 2U", "Options Range A")),
		snapshot("2024/5", mod("MTHA5001A", "Year 2U", "Options Range A"), mod("MTHA5009A", "Year 2U", "Options Range A")),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024/5", "2025/6"}, out.AcademicYears)
	require.Len(t, out.Modules, 2)
	assert.Equal(t, "MTHA5001A", out.Modules[0].CodeValue())
	assert.Equal(t, []string{"2024/5", "2025/6"}, out.Modules[0].AvailableYears)
	assert.Equal(t, []string{"2024/5"}, out.Modules[1].AvailableYears)
	assert.Equal(t, "MMATH", out.Course)
}

func TestCombine_SameCodeDifferentStudyYearsStaySeparate(t *testing.T) {
	out, err := Combine([]*File{
		snapshot("2025/6",
			mod("MTHA5001A", "Year 2U", "Options Range A"),
			mod("MTHA5001A", "Year 3U", "Options Range C"),
		),
	})
	require.NoError(t, err)
	require.Len(t, out.Modules, 2)
	assert.Equal(t, 2, out.Modules[0].Year.Number())
	assert.Equal(t, 3, out.Modules[1].Year.Number())
}

func TestCombine_RulesByYearOnlyWhenRulesDiffer(t *testing.T) {
	same := "BEFORE TAKING THIS MODULE YOU MUST TAKE MTHA4001Y"
	out, err := Combine([]*File{
		snapshot("2024/5",
			mod("MTHA5001A", "Year 2U", "Options Range A", same),
			mod("MTHA5002A", "Year 2U", "Options Range A", same),
		),
		snapshot("2025/6",
			mod("MTHA5001A", "Year 2U", "Options Range A", same),
			mod("MTHA5002A", "Year 2U", "Options Range A", "BEFORE TAKING THIS MODULE YOU MUST TAKE MTHA4002Y"),
		),
	})
	require.NoError(t, err)
	require.Len(t, out.Modules, 2)

	assert.Nil(t, out.Modules[0].RulesByYear)
	require.NotNil(t, out.Modules[1].RulesByYear)
	assert.Equal(t, Texts{same}, out.Modules[1].RulesByYear["2024/5"])
	assert.Equal(t, Texts{"BEFORE TAKING THIS MODULE YOU MUST TAKE MTHA4002Y"}, out.Modules[1].ModuleRules,
		"latest snapshot's row wins")
}

func TestCombine_MergesContentSections(t *testing.T) {
	older := mod("MTHA5001A", "Year 2U", "Options Range A")
	older.ContentSections = map[string]string{"Syllabus": "old", "Reading": "books"}
	newer := mod("MTHA5001A", "Year 2U", "Options Range A")
	newer.ContentSections = map[string]string{"Syllabus": "new"}

	out, err := Combine([]*File{snapshot("2024/5", older), snapshot("2025/6", newer)})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Syllabus": "new", "Reading": "books"}, out.Modules[0].ContentSections)
}

func TestCombine_SortsByYearSectionCode(t *testing.T) {
	out, err := Combine([]*File{snapshot("2025/6",
		mod("B", "Year 2U", "Options Range B"),
		mod("Z", "Year 1U", "Compulsory Modules"),
		mod("A", "Year 2U", "Options Range A"),
		mod("C", "Year 2U", "Compulsory Modules"),
	)})
	require.NoError(t, err)

	var codes []string
	for _, m := range out.Modules {
		codes = append(codes, m.CodeValue())
	}
	assert.Equal(t, []string{"Z", "C", "A", "B"}, codes)
}

func TestCombine_RejectsBadSnapshots(t *testing.T) {
	_, err := Combine([]*File{{Modules: nil}})
	assert.Error(t, err)

	_, err = Combine([]*File{snapshot("2025/6"), snapshot("2025/26")})
	assert.Error(t, err)
}
