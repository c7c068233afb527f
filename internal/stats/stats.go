// Package stats summarizes a normalized policy set for dashboards and reports.
package stats

import (
	"sort"
	"time"

	"policyscope/internal/models"
)

// Recent-change window.
const (
	RecentWindow = 30 * 24 * time.Hour
	RecentLimit  = 10
)

const defaultColor = "#6b7280"

var familyColors = map[models.Family]string{
	models.FamilyDeviceConfiguration: "#3b82f6",
	models.FamilyCompliancePolicy:    "#22c55e",
	models.FamilyAppProtection:       "#f97316",
	models.FamilyConfigurationPolicy: "#8b5cf6",
}

var platformColors = map[models.Platform]string{
	models.PlatformWindows: "#3b82f6",
	models.PlatformIOS:     "#22c55e",
	models.PlatformAndroid: "#f97316",
	models.PlatformMacOS:   "#8b5cf6",
	models.PlatformAll:     defaultColor,
}

// FamilyCount is the number of policies in one family.
type FamilyCount struct {
	Family models.Family `json:"type"`
	Count  int           `json:"count"`
	Color  string        `json:"color"`
}

// PlatformCount is the number of policies targeting one platform.
type PlatformCount struct {
	Platform models.Platform `json:"platform"`
	Count    int             `json:"count"`
	Color    string          `json:"color"`
}

// Stats is the dashboard summary.
type Stats struct {
	Total            int             `json:"total"`
	ByFamily         []FamilyCount   `json:"byType"`
	ByPlatform       []PlatformCount `json:"byPlatform"`
	Unassigned       []models.Policy `json:"unassigned"`
	RecentlyModified []models.Policy `json:"recentlyModified"`
}

// Compute summarizes policies relative to now. Counts keep first-seen order.
func Compute(policies []models.Policy, now time.Time) Stats {
	s := Stats{
		Total:            len(policies),
		ByFamily:         []FamilyCount{},
		ByPlatform:       []PlatformCount{},
		Unassigned:       []models.Policy{},
		RecentlyModified: []models.Policy{},
	}

	famIdx := make(map[models.Family]int)
	platIdx := make(map[models.Platform]int)
	cutoff := now.Add(-RecentWindow)

	for _, p := range policies {
		if i, ok := famIdx[p.Family]; ok {
			s.ByFamily[i].Count++
		} else {
			famIdx[p.Family] = len(s.ByFamily)
			s.ByFamily = append(s.ByFamily, FamilyCount{Family: p.Family, Count: 1, Color: colorOr(familyColors[p.Family])})
		}

		if i, ok := platIdx[p.Platform]; ok {
			s.ByPlatform[i].Count++
		} else {
			platIdx[p.Platform] = len(s.ByPlatform)
			s.ByPlatform = append(s.ByPlatform, PlatformCount{Platform: p.Platform, Count: 1, Color: colorOr(platformColors[p.Platform])})
		}

		if !p.IsAssigned() {
			s.Unassigned = append(s.Unassigned, p)
		}

		if !p.LastModifiedAt.IsZero() && p.LastModifiedAt.After(cutoff) {
			s.RecentlyModified = append(s.RecentlyModified, p)
		}
	}

	sort.SliceStable(s.RecentlyModified, func(i, j int) bool {
		return s.RecentlyModified[i].LastModifiedAt.After(s.RecentlyModified[j].LastModifiedAt)
	})

	if len(s.RecentlyModified) > RecentLimit {
		s.RecentlyModified = s.RecentlyModified[:RecentLimit]
	}

	return s
}

func colorOr(c string) string {
	if c == "" {
		return defaultColor
	}

	return c
}
