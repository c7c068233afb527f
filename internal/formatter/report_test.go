package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyscope/internal/models"
	"policyscope/pkg/metadata"
)

func reportPolicies() []models.Policy {
	at := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	return []models.Policy{
		{
			ID:             "1",
			Name:           "Camera lockdown",
			Description:    "Blocks the\n camera",
			Family:         models.FamilyDeviceConfiguration,
			Platform:       models.PlatformWindows,
			LastModified:   "6/20/2025",
			LastModifiedAt: at,
			CreatedBy:      "Ada",
			AssignedGroups: []string{"g1"},
			Settings:       []models.Setting{{Category: "Camera", Key: "Allow Camera", Value: "Disabled"}},
		},
		{
			ID:             "2",
			Name:           "iOS MAM",
			Family:         models.FamilyAppProtection,
			Platform:       models.PlatformIOS,
			LastModified:   models.Unknown,
			CreatedBy:      models.Unknown,
			AssignedGroups: []string{},
			Settings:       []models.Setting{},
		},
	}
}

func TestReport(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	out := Report(reportPolicies(), ReportOptions{GeneratedAt: now, FailedSources: []string{"Intents"}})

	assert.True(t, strings.HasPrefix(out, "# Intune Policy Report\n"))
	assert.Contains(t, out, "2 policies.")
	assert.Contains(t, out, "> Failed to load: Intents")
	assert.Contains(t, out, "| Device Configuration | 1     |")
	assert.Contains(t, out, "## Unassigned (1)")
	assert.Contains(t, out, "## Recently modified")
	assert.Contains(t, out, "## Camera lockdown")
	assert.Contains(t, out, "Blocks the camera")
	assert.Contains(t, out, "| Camera   | Allow Camera | Disabled |")
	assert.Contains(t, out, "_No settings._")

	meta, err := metadata.Verify(out)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Policies)
	assert.Equal(t, []string{"Intents"}, meta.FailedSources)
	assert.True(t, meta.GeneratedAt.Equal(now))
}

func TestReport_SummaryOnly(t *testing.T) {
	out := Report(reportPolicies(), ReportOptions{Title: "Summary", SummaryOnly: true})

	assert.True(t, strings.HasPrefix(out, "# Summary\n"))
	assert.NotContains(t, out, "## Camera lockdown")
	assert.NotContains(t, out, "Failed to load")
}

func TestPolicyMarkdown_TruncatesLongValues(t *testing.T) {
	p := models.Policy{
		Name:     "Long",
		Settings: []models.Setting{{Category: "General", Key: "Blob", Value: strings.Repeat("x", 300)}},
	}

	out := PolicyMarkdown(&p)

	assert.Contains(t, out, strings.Repeat("x", maxValueWidth)+"...")
	assert.NotContains(t, out, strings.Repeat("x", maxValueWidth+1))
	assert.Contains(t, out, "| Assigned Groups | None")
}
