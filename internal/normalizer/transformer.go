package normalizer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"policyscope/internal/models"
	"policyscope/internal/resolver"
)

// DateLayout renders lastModified in US short date form.
const DateLayout = "1/2/2006"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize converts one raw Graph object of the given family into the
// unified record. It never fails: missing or malformed optional fields are
// treated as absent.
func Normalize(raw models.RawRecord, family models.Family) models.Policy {
	kind := models.SourceForFamily(family)
	if kind == "" {
		raw = orEmpty(raw)
		p := basePolicy(raw, family)
		appendSettings(&p, extractObject(raw, resolver.DefaultCategory)...)

		return p
	}

	return NormalizeSource(raw, kind)
}

// NormalizeSource normalizes a record read from a specific collection,
// including the auxiliary ones.
func NormalizeSource(raw models.RawRecord, kind models.SourceKind) models.Policy {
	raw = orEmpty(raw)

	var p models.Policy

	switch kind {
	case models.SourceDeviceConfigurations:
		p = transformDeviceConfiguration(raw)
	case models.SourceCompliancePolicies:
		p = transformCompliancePolicy(raw)
	case models.SourceManagedAppPolicies:
		p = transformAppProtectionPolicy(raw)
	case models.SourceConfigurationPolicies:
		p = transformConfigurationPolicy(raw)
	default:
		p = transformAuxiliary(raw, kind)
	}

	p.Source = kind.DisplayName()

	return p
}

func orEmpty(raw models.RawRecord) models.RawRecord {
	if raw == nil {
		return models.RawRecord{}
	}

	return raw
}

// basePolicy fills the fields every family shares.
func basePolicy(raw models.RawRecord, family models.Family) models.Policy {
	id := raw.String("id")
	if id == "" {
		id, _ = raw.Text("id")
	}

	modifiedAt, modified := parseTimestamp(raw.String("lastModifiedDateTime"))

	return models.Policy{
		ID:             id,
		Name:           policyName(raw, fmt.Sprintf("%s %s", family, id)),
		Description:    raw.String("description"),
		Family:         family,
		Platform:       resolver.DeterminePlatform(raw.String("@odata.type")),
		LastModified:   modified,
		LastModifiedAt: modifiedAt,
		CreatedBy:      createdBy(raw),
		AssignedGroups: assignedGroups(raw),
		Settings:       []models.Setting{},
	}
}

func policyName(raw models.RawRecord, fallback string) string {
	for _, field := range []string{"displayName", "name"} {
		if name := strings.TrimSpace(raw.String(field)); name != "" {
			return name
		}
	}

	return fallback
}

// parseTimestamp returns the parsed instant and its display form, or the
// zero time and "Unknown" when the value cannot be read.
func parseTimestamp(value string) (time.Time, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, models.Unknown
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}

		if t.IsZero() {
			return time.Time{}, models.Unknown
		}

		t = t.UTC()

		return t, t.Format(DateLayout)
	}

	return time.Time{}, models.Unknown
}

func createdBy(raw models.RawRecord) string {
	name, _ := raw.Path("createdBy", "user", "displayName").(string)
	if name == "" {
		return models.Unknown
	}

	return name
}

// assignedGroups lists target group ids. Assignments without a group
// (all devices, all users) are reported as "Unknown".
func assignedGroups(raw models.RawRecord) []string {
	assignments := raw.Slice("assignments")
	groups := make([]string, 0, len(assignments))

	for _, item := range assignments {
		assignment, ok := models.AsRecord(item)
		if !ok {
			continue
		}

		groupID, _ := assignment.Path("target", "groupId").(string)
		if groupID == "" {
			groupID = models.Unknown
		}

		groups = append(groups, groupID)
	}

	return groups
}

// namedField binds a display label to a raw field.
type namedField struct {
	label string
	field string
}

// extractNamed emits one setting per present field, in table order.
func extractNamed(raw models.RawRecord, fields []namedField, category string) []models.Setting {
	var settings []models.Setting

	for _, f := range fields {
		v, ok := raw[f.field]
		if !ok || v == nil {
			continue
		}

		settings = append(settings, models.Setting{
			Category: category,
			Key:      f.label,
			Value:    displayValue(v),
		})
	}

	return settings
}

// extractObject flattens every non-bookkeeping field of obj into category.
func extractObject(obj models.RawRecord, category string) []models.Setting {
	var settings []models.Setting

	for _, key := range sortedKeys(obj) {
		v := obj[key]
		if v == nil || isBookkeeping(key) {
			continue
		}

		settings = append(settings, models.Setting{
			Category: category,
			Key:      resolver.FormatKey(key),
			Value:    displayValue(v),
		})
	}

	return settings
}

// displayValue renders scalars inline and objects or arrays of objects as
// indented multi-line text.
func displayValue(v any) string {
	if arr, ok := v.([]any); ok && !containsComposite(arr) {
		return models.Stringify(arr)
	}

	if models.IsComposite(v) {
		return models.PrettyJSON(v)
	}

	return models.Stringify(v)
}

func containsComposite(arr []any) bool {
	for _, item := range arr {
		if models.IsComposite(item) {
			return true
		}
	}

	return false
}

func sortedKeys(obj models.RawRecord) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func appendSettings(p *models.Policy, settings ...models.Setting) {
	p.Settings = append(p.Settings, settings...)
}
