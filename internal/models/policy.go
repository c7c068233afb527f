// Package models holds the unified policy record and the raw Graph shapes it is built from.
package models

import "time"

// Family identifies which extraction rules produced a policy.
type Family string

// Policy families.
const (
	FamilyDeviceConfiguration Family = "Device Configuration"
	FamilyCompliancePolicy    Family = "Compliance Policy"
	FamilyAppProtection       Family = "App Protection"
	FamilyConfigurationPolicy Family = "Configuration Policy"
)

// Families lists the policy families in display order.
var Families = []Family{
	FamilyDeviceConfiguration,
	FamilyCompliancePolicy,
	FamilyAppProtection,
	FamilyConfigurationPolicy,
}

// ParseFamily maps a loose family name ("compliance", "Device Configuration",
// "configurationPolicy") to a Family.
func ParseFamily(name string) (Family, bool) {
	switch squash(name) {
	case "deviceconfiguration", "deviceconfigurations", "device":
		return FamilyDeviceConfiguration, true
	case "compliancepolicy", "compliancepolicies", "compliance":
		return FamilyCompliancePolicy, true
	case "appprotection", "appprotectionpolicy", "appprotectionpolicies", "managedapppolicies", "app":
		return FamilyAppProtection, true
	case "configurationpolicy", "configurationpolicies", "settingscatalog", "catalog":
		return FamilyConfigurationPolicy, true
	}

	return "", false
}

// Platform is the inferred target platform of a policy.
type Platform string

// Platforms.
const (
	PlatformWindows Platform = "Windows"
	PlatformIOS     Platform = "iOS"
	PlatformAndroid Platform = "Android"
	PlatformMacOS   Platform = "macOS"
	PlatformAll     Platform = "All Platforms"
)

// Platforms lists every platform in display order.
var Platforms = []Platform{
	PlatformWindows,
	PlatformIOS,
	PlatformAndroid,
	PlatformMacOS,
	PlatformAll,
}

// Placeholder values used when the source carries no usable data.
const (
	Unknown      = "Unknown"
	UnknownValue = "[Unknown]"
	NoValue      = "[No Value]"
	Encrypted    = "[Encrypted]"
	EncryptedRef = "[Encrypted Value]"
)

// Setting is one decoded configuration fact.
type Setting struct {
	Category    string `json:"category"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Policy is the unified record every family normalizes into.
type Policy struct {
	LastModifiedAt time.Time `json:"lastModifiedAt"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Family         Family    `json:"type"`
	Platform       Platform  `json:"platform"`
	LastModified   string    `json:"lastModified"`
	CreatedBy      string    `json:"createdBy"`
	Source         string    `json:"source,omitempty"`
	AssignedGroups []string  `json:"assignedGroups"`
	Settings       []Setting `json:"settings"`
}

// IsAssigned reports whether the policy targets at least one group.
func (p *Policy) IsAssigned() bool {
	return len(p.AssignedGroups) > 0
}

func squash(s string) string {
	out := make([]rune, 0, len(s))

	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		}
	}

	return string(out)
}
