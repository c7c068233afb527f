package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyscope/internal/models"
)

func TestNormalize_MinimalRecordForEveryFamily(t *testing.T) {
	for _, family := range models.Families {
		t.Run(string(family), func(t *testing.T) {
			p := Normalize(models.RawRecord{"id": "x"}, family)

			require.NotNil(t, p.Settings)
			assert.Empty(t, p.Settings)
			assert.Equal(t, "x", p.ID)
			assert.Equal(t, family, p.Family)
			assert.Equal(t, string(family)+" x", p.Name)
			assert.Equal(t, "", p.Description)
			assert.Equal(t, models.Unknown, p.LastModified)
			assert.Equal(t, models.Unknown, p.CreatedBy)
			assert.Equal(t, models.PlatformAll, p.Platform)
			require.NotNil(t, p.AssignedGroups)
			assert.False(t, p.IsAssigned())
		})
	}
}

func TestNormalize_NilRecord(t *testing.T) {
	p := Normalize(nil, models.FamilyCompliancePolicy)

	require.NotNil(t, p.Settings)
	assert.Empty(t, p.Settings)
	assert.Equal(t, "", p.ID)
}

func TestNormalize_UnknownFamily(t *testing.T) {
	p := Normalize(models.RawRecord{"id": "7", "displayName": "Odd", "foo": "bar"}, models.Family("Mystery"))

	assert.Equal(t, models.Family("Mystery"), p.Family)
	assert.Equal(t, "Odd", p.Name)
	assert.Equal(t, []models.Setting{{Category: "General", Key: "Foo", Value: "bar"}}, p.Settings)
}

func deviceConfigWithOmaSettings() models.RawRecord {
	return models.RawRecord{
		"@odata.type":          "#microsoft.graph.windows10CustomConfiguration",
		"id":                   "dc-1",
		"displayName":          "Camera lockdown",
		"lastModifiedDateTime": "2024-03-05T10:20:30Z",
		"createdBy":            map[string]any{"user": map[string]any{"displayName": "Ada"}},
		"assignments": []any{
			map[string]any{"target": map[string]any{"groupId": "g1"}},
			map[string]any{"target": map[string]any{"@odata.type": "#microsoft.graph.allDevicesAssignmentTarget"}},
			"bad",
		},
		"omaSettings": []any{
			map[string]any{
				"@odata.type": "#microsoft.graph.omaSettingInteger",
				"displayName": "Allow Camera",
				"omaUri":      "./Device/Vendor/MSFT/Policy/Config/Camera/AllowCamera",
				"value":       float64(0),
			},
		},
	}
}

func TestNormalize_DeviceConfigurationOmaArray(t *testing.T) {
	p := Normalize(deviceConfigWithOmaSettings(), models.FamilyDeviceConfiguration)

	require.Len(t, p.Settings, 1)

	s := p.Settings[0]
	assert.Equal(t, "Allow Camera", s.Key)
	assert.Equal(t, "Disabled", s.Value)
	assert.Equal(t, "Camera", s.Category)
	assert.NotEqual(t, "General", s.Category)

	assert.Equal(t, "Camera lockdown", p.Name)
	assert.Equal(t, models.PlatformWindows, p.Platform)
	assert.Equal(t, "3/5/2024", p.LastModified)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC), p.LastModifiedAt)
	assert.Equal(t, "Ada", p.CreatedBy)
	assert.Equal(t, []string{"g1", models.Unknown}, p.AssignedGroups)
	assert.Equal(t, "Device Configurations", p.Source)
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(deviceConfigWithOmaSettings(), models.FamilyDeviceConfiguration)
	second := Normalize(deviceConfigWithOmaSettings(), models.FamilyDeviceConfiguration)

	assert.Equal(t, first, second)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := deviceConfigWithOmaSettings()
	Normalize(raw, models.FamilyDeviceConfiguration)

	assert.Equal(t, deviceConfigWithOmaSettings(), raw)
}

func TestNormalize_DeviceConfigurationFields(t *testing.T) {
	raw := models.RawRecord{
		"id":               "dc-2",
		"customThing":      "x",
		"cameraBlocked":    false,
		"passwordRequired": true,
		"roleScopeTagIds":  []any{"0"},
		"deviceSettings":   map[string]any{"foo": float64(1)},
		"userSettings":     map[string]any{"barBaz": "on", "id": "skip"},
	}

	p := Normalize(raw, models.FamilyDeviceConfiguration)

	want := []models.Setting{
		{Category: "Authentication", Key: "Password Required", Value: "true"},
		{Category: "Hardware", Key: "Camera Blocked", Value: "false"},
		{Category: "General", Key: "Custom Thing", Value: "x"},
		{Category: CategoryDeviceSection, Key: "Foo", Value: "1"},
		{Category: CategoryUserSection, Key: "Bar Baz", Value: "on"},
	}
	assert.Equal(t, want, p.Settings)
}

func TestNormalize_CompliancePolicy(t *testing.T) {
	raw := models.RawRecord{
		"@odata.type":      "#microsoft.graph.windows10CompliancePolicy",
		"id":               "c1",
		"displayName":      "Baseline compliance",
		"passwordRequired": true,
		"osMinimumVersion": "10.0.19041",
		"unrelated":        "z",
	}

	p := Normalize(raw, models.FamilyCompliancePolicy)

	want := []models.Setting{
		{Category: CategoryCompliance, Key: "Password Required", Value: "true"},
		{Category: CategoryCompliance, Key: "Minimum OS Version", Value: "10.0.19041"},
	}
	assert.Equal(t, want, p.Settings)
	assert.Equal(t, models.PlatformWindows, p.Platform)
	assert.Equal(t, "Compliance Policies", p.Source)
}

func TestNormalize_AppProtection(t *testing.T) {
	raw := models.RawRecord{
		"@odata.type":      "#microsoft.graph.iosManagedAppProtection",
		"id":               "a1",
		"displayName":      "iOS MAM",
		"minimumPinLength": float64(4),
		"pinRequired":      true,
		"printBlocked":     nil,
	}

	p := Normalize(raw, models.FamilyAppProtection)

	want := []models.Setting{
		{Category: CategoryAppProtection, Key: "PIN Required", Value: "true"},
		{Category: CategoryAppProtection, Key: "Minimum PIN Length", Value: "4"},
	}
	assert.Equal(t, want, p.Settings)
	assert.Equal(t, models.PlatformIOS, p.Platform)
}

func TestNormalize_ConfigurationPolicy(t *testing.T) {
	raw := models.RawRecord{
		"id":        "p1",
		"name":      "Defender baseline",
		"platforms": "windows10",
		"settings": []any{
			map[string]any{
				"id": "0",
				"settingInstance": map[string]any{
					"settingDefinitionId": "device_vendor_msft_policy_config_defender_allowrealtimemonitoring",
					"choiceSettingValue": map[string]any{
						"value":    "device_vendor_msft_policy_config_defender_allowrealtimemonitoring_1",
						"children": []any{},
					},
				},
			},
			map[string]any{
				"id": "1",
				"settingInstance": map[string]any{
					"settingDefinitionId": "device_vendor_msft_policy_config_deliveryoptimization_domaxcachesize",
					"simpleSettingValue":  map[string]any{"value": float64(10)},
				},
			},
		},
	}

	p := Normalize(raw, models.FamilyConfigurationPolicy)

	assert.Equal(t, "Defender baseline", p.Name)
	assert.Equal(t, models.PlatformWindows, p.Platform)
	require.Len(t, p.Settings, 2)

	assert.Equal(t, models.Setting{
		Category: "Security > Microsoft Defender",
		Key:      "Microsoft Defender: Allowrealtimemonitoring",
		Value:    "Enabled",
	}, p.Settings[0])

	assert.Equal(t, "User Experience > Delivery Optimization", p.Settings[1].Category)
	assert.Contains(t, p.Settings[1].Key, "Delivery Optimization")
	assert.Equal(t, "10", p.Settings[1].Value)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2024-03-05T10:20:30Z", want: "3/5/2024"},
		{in: "2024-12-31T23:30:00-02:00", want: "1/1/2025"},
		{in: "2023-07-04T08:00:00.1234567Z", want: "7/4/2023"},
		{in: "2022-02-01", want: "2/1/2022"},
		{in: "0001-01-01T00:00:00Z", want: models.Unknown},
		{in: "garbage", want: models.Unknown},
		{in: "", want: models.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, got := parseTimestamp(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSource_Auxiliary(t *testing.T) {
	t.Run("empty group policy", func(t *testing.T) {
		p := NormalizeSource(models.RawRecord{}, models.SourceGroupPolicyConfigurations)

		assert.Equal(t, "unknown", p.ID)
		assert.Equal(t, "Unknown Group Policy", p.Name)
		assert.Equal(t, models.PlatformWindows, p.Platform)
		assert.Equal(t, models.FamilyConfigurationPolicy, p.Family)
		assert.Equal(t, "Group Policy Configurations", p.Source)
		assert.NotNil(t, p.Settings)
		assert.Empty(t, p.Settings)
	})

	t.Run("security baseline", func(t *testing.T) {
		raw := models.RawRecord{
			"id":          "i1",
			"displayName": "Windows baseline",
			"templateId":  "abc",
			"assignments": []any{map[string]any{"target": map[string]any{"groupId": "g"}}},
		}

		p := NormalizeSource(raw, models.SourceIntents)

		assert.Equal(t, "Windows baseline", p.Name)
		assert.Empty(t, p.AssignedGroups)
		assert.Equal(t, []models.Setting{{Category: "Security Baseline", Key: "Template Id", Value: "abc"}}, p.Settings)
	})

	t.Run("enrollment configuration name fallback", func(t *testing.T) {
		p := NormalizeSource(models.RawRecord{"id": "e1", "priority": float64(2)}, models.SourceDeviceEnrollmentConfigurations)

		assert.Equal(t, "Unknown Enrollment Configuration", p.Name)
		assert.Equal(t, []models.Setting{{Category: "Enrollment Configuration", Key: "Priority", Value: "2"}}, p.Settings)
	})
}
