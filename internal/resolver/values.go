package resolver

import (
	"strconv"
	"strings"
)

// Display values produced by TranslateValue.
const (
	ValueEnabled       = "Enabled"
	ValueDisabled      = "Disabled"
	ValueConfigured    = "Configured"
	ValueNotConfigured = "Not Configured"
)

// knownValues translates common encodings directly.
//
// "2" and "3" are translated for every setting, including numeric
// enumerations that are not toggles; this mislabels such settings but
// matches what existing dashboards show.
var knownValues = map[string]string{
	"0":     ValueDisabled,
	"1":     ValueEnabled,
	"true":  ValueEnabled,
	"false": ValueDisabled,

	"device_vendor_msft_policy_config_admx_icm_shellhousestoreopenwith_2_1":                    ValueEnabled,
	"device_vendor_msft_policy_config_admx_icm_nc_exitonisp_1":                                 ValueEnabled,
	"device_vendor_msft_policy_config_admx_icm_nc_noregistration_1":                            ValueEnabled,
	"device_vendor_msft_policy_config_connectivity_disabledownloadingofprintdriversoverhttp_1": ValueEnabled,
	"device_vendor_msft_policy_config_connectivity_diableprintingoverhttp_1":                   ValueEnabled,
	"device_vendor_msft_policy_config_admx_icm_searchcompanion_disablefileupdates_1":           ValueEnabled,

	"automatic":     "Automatic",
	"enabled":       ValueEnabled,
	"disabled":      ValueDisabled,
	"notconfigured": ValueNotConfigured,
	"devicedefault": "Device Default",
	"userdefined":   "User Defined",

	"2": ValueEnabled,
	"3": ValueDisabled,
}

// toggleHints mark a setting name as an on/off switch.
var toggleHints = []string{"turn", "enable", "disable"}

var vendorValuePrefixes = []string{
	"device_vendor_msft_",
	"user_vendor_msft_",
}

// TranslateValue renders a raw setting value for display. settingName is
// used as a hint for numeric toggles and may be empty.
func TranslateValue(value, settingName string) string {
	if value == "" {
		return value
	}

	lower := strings.ToLower(value)

	if translated, ok := knownValues[lower]; ok {
		return translated
	}

	if isToggle(settingName) {
		if n, err := strconv.ParseFloat(strings.TrimSpace(lower), 64); err == nil {
			switch n {
			case 0:
				return ValueDisabled
			case 1:
				return ValueEnabled
			}
		}
	}

	if isVendorValue(lower) {
		return translateVendorValue(lower)
	}

	return capitalizeFirst(value)
}

func isToggle(settingName string) bool {
	lower := strings.ToLower(settingName)
	for _, hint := range toggleHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}

	return false
}

func isVendorValue(lower string) bool {
	for _, prefix := range vendorValuePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	return false
}

// translateVendorValue inspects a full choice-value id. Ids that carry no
// recognizable state are reported as "Configured" rather than guessed.
func translateVendorValue(lower string) string {
	switch {
	case strings.HasSuffix(lower, "_0"):
		return ValueDisabled
	case strings.HasSuffix(lower, "_1"):
		return ValueEnabled
	case strings.Contains(lower, "disable"):
		return ValueDisabled
	case strings.Contains(lower, "enable"):
		return ValueEnabled
	}

	return ValueConfigured
}
