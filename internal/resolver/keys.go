package resolver

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Settings-catalog definition ids of the Policy CSP start with one of these.
var policyIDPrefixes = []string{
	"device_vendor_msft_policy_config_",
	"user_vendor_msft_policy_config_",
}

// minParsedKeyLength is the shortest parsed id accepted before falling back
// to plain underscore splitting.
const minParsedKeyLength = 5

// componentNames maps id segments naming a Windows component.
var componentNames = map[string]string{
	"admx":                   "Administrative Template",
	"defender":               "Microsoft Defender",
	"windowsdefender":        "Microsoft Defender",
	"connectivity":           "Network Connectivity",
	"system":                 "System",
	"browser":                "Browser",
	"internetexplorer":       "Internet Explorer",
	"microsoftedge":          "Microsoft Edge",
	"windowsupdate":          "Windows Update",
	"applicationmanagement":  "Application Management",
	"devicemanagement":       "Device Management",
	"privacy":                "Privacy",
	"security":               "Security",
	"windowsai":              "Windows AI",
	"search":                 "Search",
	"taskscheduler":          "Task Scheduler",
	"eventlog":               "Event Log",
	"wifi":                   "Wi-Fi",
	"bluetooth":              "Bluetooth",
	"kerberos":               "Kerberos",
	"credentialsui":          "Credentials UI",
	"deliveryoptimization":   "Delivery Optimization",
	"experience":             "User Experience",
	"windowslogon":           "Windows Logon",
	"remotedesktop":          "Remote Desktop",
	"localsecurityauthority": "Local Security Authority",
	"credentials":            "Credentials",
	"smartscreen":            "Smart Screen",
	"windowsfirewall":        "Windows Firewall",
	"troubleshooting":        "Troubleshooting",
	"diagnostics":            "Diagnostics",
	"errorreporting":         "Error Reporting",
	"msdt":                   "Microsoft Support Diagnostic Tool",
	"icm":                    "Information Collection",
	"nc":                     "Network",
	"searchcompanion":        "Search Companion",
}

// actionNames maps id segments naming an action or a known compound setting.
var actionNames = map[string]string{
	"disable":   "Disable",
	"enable":    "Enable",
	"allow":     "Allow",
	"prevent":   "Prevent",
	"block":     "Block",
	"configure": "Configure",
	"set":       "Set",
	"turn":      "Turn",
	"disallow":  "Disallow",
	"restrict":  "Restrict",
	"require":   "Require",

	"shellhousestoreopenwith":                  "Shell House Store Open With",
	"exitonisp":                                "Exit on ISP",
	"noregistration":                           "No Registration",
	"disabledownloadingofprintdriversoverhttp": "Disable Downloading of Print Drivers over HTTP",
	"diableprintingoverhttp":                   "Disable Printing over HTTP",
	"disablefileupdates":                       "Disable File Updates",
}

var (
	numericSegment = regexp.MustCompile(`^\d+$`)
	doubleColon    = regexp.MustCompile(`:\s*:`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	lowerUpper     = regexp.MustCompile(`([a-z])([A-Z])`)
)

// IsPolicyID reports whether key is a Policy CSP settings-catalog id.
func IsPolicyID(key string) bool {
	lower := strings.ToLower(key)
	for _, prefix := range policyIDPrefixes {
		if strings.Contains(lower, prefix) {
			return true
		}
	}

	return false
}

// FormatKey turns a raw field name or settings-catalog id into a display name.
// Only the first letter is capitalized: "foo_bar" becomes "Foo bar".
func FormatKey(key string) string {
	if IsPolicyID(key) {
		return ParseSettingID(key)
	}

	var b strings.Builder

	for _, r := range strings.ReplaceAll(key, "_", " ") {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}

		b.WriteRune(r)
	}

	spaced := capitalizeFirst(b.String())

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(spaced, " "))
}

// ParseSettingID decodes a settings-catalog definition id such as
// "device_vendor_msft_policy_config_defender_allowrealtimemonitoring"
// into "Microsoft Defender: Allowrealtimemonitoring".
func ParseSettingID(id string) string {
	suffix := stripPolicyPrefix(id)

	var labels []string

	for _, part := range strings.Split(suffix, "_") {
		part = strings.ToLower(part)
		if utf8.RuneCountInString(part) <= 1 || numericSegment.MatchString(part) {
			continue
		}

		if name, ok := componentNames[part]; ok {
			labels = append(labels, name)

			continue
		}

		if name, ok := actionNames[part]; ok {
			labels = append(labels, name)

			continue
		}

		// Casers carry state, so each call gets its own.
		labels = append(labels, cases.Title(language.Und).String(part))
	}

	result := strings.Join(labels, ": ")
	result = doubleColon.ReplaceAllString(result, ":")
	result = strings.TrimSpace(whitespaceRun.ReplaceAllString(result, " "))
	result = strings.TrimSuffix(result, ":")

	if len(result) < minParsedKeyLength {
		spaced := lowerUpper.ReplaceAllString(strings.ReplaceAll(suffix, "_", " "), "$1 $2")

		return cases.Title(language.Und, cases.NoLower).String(spaced)
	}

	return result
}

func stripPolicyPrefix(id string) string {
	lower := strings.ToLower(id)
	for _, prefix := range policyIDPrefixes {
		if idx := strings.Index(lower, prefix); idx >= 0 {
			return id[:idx] + id[idx+len(prefix):]
		}
	}

	return id
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
