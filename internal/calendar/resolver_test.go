package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcademicYear(t *testing.T) {
	tests := []struct {
		in   string
		want AcademicYear
	}{
		{"2025/6", 2025},
		{"2025/26", 2025},
		{"2025-26", 2025},
		{"2025_6", 2025},
		{" 2024 ", 2024},
	}
	for _, tt := range tests {
		got, err := ParseAcademicYear(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "Year 2U", "20x5/6", "25/6"} {
		_, err := ParseAcademicYear(bad)
		assert.Error(t, err, bad)
	}
}

func TestAcademicYear_Key(t *testing.T) {
	assert.Equal(t, "2025/6", AcademicYear(2025).Key())
	assert.Equal(t, "2029/0", AcademicYear(2029).Key())
}

func TestCalendarYear(t *testing.T) {
	assert.Equal(t, AcademicYear(2025), CalendarYear(2025, 1))
	assert.Equal(t, AcademicYear(2028), CalendarYear(2025, 4))
}

func TestResolve_ExactMatch(t *testing.T) {
	r := NewResolver([]string{"2024/5", "2025/6"})
	got, ok := r.Resolve(2025)
	require.True(t, ok)
	assert.Equal(t, AcademicYear(2025), got)
}

func TestResolve_SameParityNearest(t *testing.T) {
	r := NewResolver([]string{"2024/5", "2026/7"})

	got, ok := r.Resolve(2028)
	require.True(t, ok)
	assert.Equal(t, AcademicYear(2026), got, "2028 is even; 2026 is the nearer even snapshot")
}

func TestResolve_NoParityMatchFallsBackToMostRecent(t *testing.T) {
	r := NewResolver([]string{"2024/5", "2026/7"})

	tests := []struct {
		year AcademicYear
		want AcademicYear
	}{
		{2025, 2026},
		{2021, 2026},
		{2031, 2026},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.year)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "year %d", tt.year)
	}
}

func TestResolve_ParityPreservesAlternation(t *testing.T) {
	r := NewResolver([]string{"2024/5", "2025/6"})

	got, _ := r.Resolve(2027)
	assert.Equal(t, AcademicYear(2025), got)
	got, _ = r.Resolve(2028)
	assert.Equal(t, AcademicYear(2024), got)
}

func TestResolve_NoSnapshots(t *testing.T) {
	r := NewResolver(nil)
	_, ok := r.Resolve(2025)
	assert.False(t, ok)
}

func TestNewResolver_IgnoresBadAndDuplicateKeys(t *testing.T) {
	r := NewResolver([]string{"2026/7", "junk", "2024/5", "2026/27"})
	assert.Equal(t, []AcademicYear{2024, 2026}, r.Snapshots())
}

func TestVisible_ProjectsAlternateYearModules(t *testing.T) {
	r := NewResolver([]string{"2024/5", "2025/6"})

	resolved, visible := r.Visible(2027, []string{"2025/6"}, false)
	assert.True(t, visible)
	assert.Equal(t, AcademicYear(2025), resolved)

	_, visible = r.Visible(2028, []string{"2025/6"}, false)
	assert.False(t, visible)
}

func TestVisible_DiscontinuedNeverProjected(t *testing.T) {
	r := NewResolver([]string{"2024/5", "2025/6"})

	_, visible := r.Visible(2025, []string{"2025/6"}, true)
	assert.True(t, visible)

	_, visible = r.Visible(2027, []string{"2025/6"}, true)
	assert.False(t, visible, "a withdrawn module must not be projected forward")
}
