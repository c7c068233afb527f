package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyscope/internal/models"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, now)

	assert.Equal(t, 0, s.Total)
	assert.NotNil(t, s.ByFamily)
	assert.NotNil(t, s.Unassigned)
	assert.NotNil(t, s.RecentlyModified)
}

func TestCompute_Counts(t *testing.T) {
	policies := []models.Policy{
		{ID: "1", Family: models.FamilyCompliancePolicy, Platform: models.PlatformWindows, AssignedGroups: []string{"g"}},
		{ID: "2", Family: models.FamilyDeviceConfiguration, Platform: models.PlatformWindows, AssignedGroups: []string{}},
		{ID: "3", Family: models.FamilyCompliancePolicy, Platform: models.PlatformIOS},
		{ID: "4", Family: models.Family("Mystery"), Platform: models.PlatformAll, AssignedGroups: []string{models.Unknown}},
	}

	s := Compute(policies, now)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, []FamilyCount{
		{Family: models.FamilyCompliancePolicy, Count: 2, Color: "#22c55e"},
		{Family: models.FamilyDeviceConfiguration, Count: 1, Color: "#3b82f6"},
		{Family: models.Family("Mystery"), Count: 1, Color: defaultColor},
	}, s.ByFamily)
	assert.Equal(t, []PlatformCount{
		{Platform: models.PlatformWindows, Count: 2, Color: "#3b82f6"},
		{Platform: models.PlatformIOS, Count: 1, Color: "#22c55e"},
		{Platform: models.PlatformAll, Count: 1, Color: defaultColor},
	}, s.ByPlatform)

	require.Len(t, s.Unassigned, 2)
	assert.Equal(t, "2", s.Unassigned[0].ID)
	assert.Equal(t, "3", s.Unassigned[1].ID)
}

func TestCompute_RecentlyModified(t *testing.T) {
	var policies []models.Policy

	for i := range 14 {
		policies = append(policies, models.Policy{
			ID:             fmt.Sprintf("p%d", i),
			LastModifiedAt: now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}

	policies = append(policies,
		models.Policy{ID: "old", LastModifiedAt: now.Add(-31 * 24 * time.Hour)},
		models.Policy{ID: "never"},
	)

	// Reverse so sorting is exercised.
	for i, j := 0, len(policies)-1; i < j; i, j = i+1, j-1 {
		policies[i], policies[j] = policies[j], policies[i]
	}

	s := Compute(policies, now)

	require.Len(t, s.RecentlyModified, RecentLimit)

	for i, p := range s.RecentlyModified {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.ID)
	}
}
