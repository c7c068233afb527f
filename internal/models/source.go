package models

// SourceKind names a Graph collection policies are read from.
type SourceKind string

// Graph collections, named after their URL segment.
const (
	SourceDeviceConfigurations           SourceKind = "deviceConfigurations"
	SourceCompliancePolicies             SourceKind = "deviceCompliancePolicies"
	SourceManagedAppPolicies             SourceKind = "managedAppPolicies"
	SourceConfigurationPolicies          SourceKind = "configurationPolicies"
	SourceGroupPolicyConfigurations      SourceKind = "groupPolicyConfigurations"
	SourceIntents                        SourceKind = "intents"
	SourceDeviceEnrollmentConfigurations SourceKind = "deviceEnrollmentConfigurations"
)

// SourceKinds lists every known collection in aggregation order.
var SourceKinds = []SourceKind{
	SourceDeviceConfigurations,
	SourceCompliancePolicies,
	SourceManagedAppPolicies,
	SourceConfigurationPolicies,
	SourceGroupPolicyConfigurations,
	SourceIntents,
	SourceDeviceEnrollmentConfigurations,
}

type sourceInfo struct {
	name     string
	category string
	family   Family
}

var sourceInfos = map[SourceKind]sourceInfo{
	SourceDeviceConfigurations:           {name: "Device Configurations", family: FamilyDeviceConfiguration},
	SourceCompliancePolicies:             {name: "Compliance Policies", family: FamilyCompliancePolicy},
	SourceManagedAppPolicies:             {name: "App Protection Policies", family: FamilyAppProtection},
	SourceConfigurationPolicies:          {name: "Configuration Policies", family: FamilyConfigurationPolicy},
	SourceGroupPolicyConfigurations:      {name: "Group Policy Configurations", category: "Group Policy", family: FamilyConfigurationPolicy},
	SourceIntents:                        {name: "Security Baselines", category: "Security Baseline", family: FamilyConfigurationPolicy},
	SourceDeviceEnrollmentConfigurations: {name: "Device Enrollment Configurations", category: "Enrollment Configuration", family: FamilyConfigurationPolicy},
}

// Valid reports whether k is a known collection.
func (k SourceKind) Valid() bool {
	_, ok := sourceInfos[k]

	return ok
}

// DisplayName is the human name used in logs and failure reports.
func (k SourceKind) DisplayName() string {
	if info, ok := sourceInfos[k]; ok {
		return info.name
	}

	return string(k)
}

// Family is the family records of this collection normalize into.
func (k SourceKind) Family() Family {
	return sourceInfos[k].family
}

// Auxiliary reports whether the collection is one of the supplementary
// families flattened into a single fixed category.
func (k SourceKind) Auxiliary() bool {
	return sourceInfos[k].category != ""
}

// Category is the fixed setting category of an auxiliary collection.
func (k SourceKind) Category() string {
	return sourceInfos[k].category
}

// SourceForFamily returns the primary collection of a family.
func SourceForFamily(f Family) SourceKind {
	switch f {
	case FamilyDeviceConfiguration:
		return SourceDeviceConfigurations
	case FamilyCompliancePolicy:
		return SourceCompliancePolicies
	case FamilyAppProtection:
		return SourceManagedAppPolicies
	case FamilyConfigurationPolicy:
		return SourceConfigurationPolicies
	}

	return ""
}
