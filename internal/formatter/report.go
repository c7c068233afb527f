package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"policyscope/internal/models"
	"policyscope/internal/stats"
	"policyscope/pkg/metadata"
	"policyscope/pkg/utils"
)

// maxValueWidth caps setting values in report tables.
const maxValueWidth = 120

// ReportOptions controls Report.
type ReportOptions struct {
	Title         string
	GeneratedAt   time.Time
	FailedSources []string
	// SummaryOnly omits the per-policy settings sections.
	SummaryOnly bool
}

var strs = utils.NewStringHelper()

// Report renders a signed markdown report of policies.
func Report(policies []models.Policy, opts ReportOptions) string {
	if opts.Title == "" {
		opts.Title = "Intune Policy Report"
	}

	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	s := stats.Compute(policies, opts.GeneratedAt)

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", opts.Title)
	fmt.Fprintf(&sb, "Generated %s. %d policies.\n", opts.GeneratedAt.UTC().Format(time.RFC1123), s.Total)

	if len(opts.FailedSources) > 0 {
		fmt.Fprintf(&sb, "\n> Failed to load: %s\n", strings.Join(opts.FailedSources, ", "))
	}

	sb.WriteString("\n")
	sb.WriteString(StatsMarkdown(s))

	if !opts.SummaryOnly {
		for i := range policies {
			sb.WriteString("\n")
			sb.WriteString(PolicyMarkdown(&policies[i]))
		}
	}

	return metadata.Sign(sb.String(), metadata.Metadata{
		GeneratedAt:   opts.GeneratedAt,
		Policies:      s.Total,
		FailedSources: opts.FailedSources,
	})
}

// StatsMarkdown renders the summary tables.
func StatsMarkdown(s stats.Stats) string {
	var sb strings.Builder

	sb.WriteString("## By type\n\n")

	rows := make([][]string, 0, len(s.ByFamily))
	for _, c := range s.ByFamily {
		rows = append(rows, []string{string(c.Family), strconv.Itoa(c.Count)})
	}

	sb.WriteString(Table([]string{"Type", "Count"}, rows))
	sb.WriteString("\n\n## By platform\n\n")

	rows = rows[:0]
	for _, c := range s.ByPlatform {
		rows = append(rows, []string{string(c.Platform), strconv.Itoa(c.Count)})
	}

	sb.WriteString(Table([]string{"Platform", "Count"}, rows))
	sb.WriteString("\n")

	if len(s.Unassigned) > 0 {
		fmt.Fprintf(&sb, "\n## Unassigned (%d)\n\n", len(s.Unassigned))
		sb.WriteString(policyList(s.Unassigned))
		sb.WriteString("\n")
	}

	if len(s.RecentlyModified) > 0 {
		sb.WriteString("\n## Recently modified\n\n")
		sb.WriteString(policyList(s.RecentlyModified))
		sb.WriteString("\n")
	}

	return sb.String()
}

// PolicyMarkdown renders one policy and its settings.
func PolicyMarkdown(p *models.Policy) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", p.Name)

	if p.Description != "" {
		sb.WriteString(strs.NormalizeWhitespace(p.Description))
		sb.WriteString("\n\n")
	}

	groups := "None"
	if p.IsAssigned() {
		groups = strings.Join(p.AssignedGroups, ", ")
	}

	sb.WriteString(Table([]string{"Field", "Value"}, [][]string{
		{"Type", string(p.Family)},
		{"Platform", string(p.Platform)},
		{"Last Modified", p.LastModified},
		{"Created By", p.CreatedBy},
		{"Assigned Groups", groups},
	}))
	sb.WriteString("\n")

	if len(p.Settings) == 0 {
		sb.WriteString("\n_No settings._\n")

		return sb.String()
	}

	rows := make([][]string, 0, len(p.Settings))
	for _, s := range p.Settings {
		rows = append(rows, []string{s.Category, s.Key, strs.TruncateString(s.Value, maxValueWidth)})
	}

	sb.WriteString("\n")
	sb.WriteString(Table([]string{"Category", "Setting", "Value"}, rows))
	sb.WriteString("\n")

	return sb.String()
}

func policyList(policies []models.Policy) string {
	rows := make([][]string, 0, len(policies))
	for _, p := range policies {
		rows = append(rows, []string{p.Name, string(p.Family), string(p.Platform), p.LastModified})
	}

	return Table([]string{"Name", "Type", "Platform", "Last Modified"}, rows)
}
