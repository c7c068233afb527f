package normalizer

import (
	"policyscope/internal/models"
	"policyscope/internal/resolver"
)

// Keys of a device configuration that are decoded separately.
const (
	fieldDeviceSettings = "deviceSettings"
	fieldUserSettings   = "userSettings"
	fieldSettings       = "settings"
)

func transformDeviceConfiguration(raw models.RawRecord) models.Policy {
	p := basePolicy(raw, models.FamilyDeviceConfiguration)

	for _, field := range deviceSettingFields {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}

		appendSettings(&p, models.Setting{
			Category: resolver.CategorizeField(field),
			Key:      resolver.FormatKey(field),
			Value:    displayValue(v),
		})
	}

	for _, key := range sortedKeys(raw) {
		v := raw[key]
		if v == nil || isBookkeeping(key) || deviceSettingFieldSet[key] {
			continue
		}

		switch key {
		case fieldDeviceSettings, fieldUserSettings, fieldSettings:
			continue
		}

		if looksLikeSettingsArray(key, v) {
			appendSettings(&p, expandSettingsArray(v.([]any))...)

			continue
		}

		appendSettings(&p, models.Setting{
			Category: resolver.CategorizeField(key),
			Key:      resolver.FormatKey(key),
			Value:    displayValue(v),
		})
	}

	if obj := raw.Object(fieldDeviceSettings); obj != nil {
		appendSettings(&p, extractObject(obj, CategoryDeviceSection)...)
	}

	if obj := raw.Object(fieldUserSettings); obj != nil {
		appendSettings(&p, extractObject(obj, CategoryUserSection)...)
	}

	for _, item := range raw.Slice(fieldSettings) {
		appendSettings(&p, DecodeSetting(item)...)
	}

	return p
}

func transformCompliancePolicy(raw models.RawRecord) models.Policy {
	p := basePolicy(raw, models.FamilyCompliancePolicy)
	appendSettings(&p, extractNamed(raw, complianceFields, CategoryCompliance)...)

	return p
}

func transformAppProtectionPolicy(raw models.RawRecord) models.Policy {
	p := basePolicy(raw, models.FamilyAppProtection)
	appendSettings(&p, extractNamed(raw, appProtectionFields, CategoryAppProtection)...)

	return p
}

func transformConfigurationPolicy(raw models.RawRecord) models.Policy {
	p := basePolicy(raw, models.FamilyConfigurationPolicy)
	p.Platform = resolver.MapPlatformFromString(raw.String("platforms"))

	for _, item := range raw.Slice(fieldSettings) {
		appendSettings(&p, DecodeSetting(item)...)
	}

	return p
}

// transformAuxiliary handles group policy configurations, security
// baselines and enrollment configurations. Their assignments are not
// fetched, so they always report as unassigned.
func transformAuxiliary(raw models.RawRecord, kind models.SourceKind) models.Policy {
	p := basePolicy(raw, kind.Family())
	p.AssignedGroups = []string{}

	if p.ID == "" {
		p.ID = "unknown"
	}

	label := kind.DisplayName()
	if kind.Auxiliary() {
		label = kind.Category()
	}

	p.Name = policyName(raw, "Unknown "+label)

	if kind == models.SourceGroupPolicyConfigurations {
		p.Platform = models.PlatformWindows
	}

	category := resolver.DefaultCategory
	if kind.Auxiliary() {
		category = kind.Category()
	}

	appendSettings(&p, extractObject(raw, category)...)

	return p
}
