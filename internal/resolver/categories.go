package resolver

// fieldRules categorizes device configuration property names.
var fieldRules = cascade{
	{result: "Authentication", keywords: kw("password", "pin", "auth")},
	{result: "Hardware", keywords: kw("camera", "bluetooth", "wifi", "nfc")},
	{result: "Storage & Encryption", keywords: kw("storage", "encryption")},
	{result: "Display", keywords: kw("screen", "display")},
	{result: "Power Management", keywords: kw("power", "battery")},
	{result: "Microsoft Account", keywords: kw("microsoft", "account")},
	{result: "Web & Browser", keywords: kw("edge", "web", "internet")},
	{result: "System Settings", keywords: kw("settings", "block")},
	{result: "Privacy", keywords: kw("location", "sharing")},
	{result: "User Experience", keywords: kw("experience", "logon")},
	{result: "Cloud & Printing", keywords: kw("cloud", "print")},
}

// settingIDRules produces Intune-portal style hierarchical categories for
// settings-catalog definition ids.
var settingIDRules = cascade{
	// System
	{
		result:   path("System", "Troubleshooting and Diagnostics"),
		keywords: kw("troubleshooting", "diagnostics"),
		refine: []rule{
			{result: path("System", "Troubleshooting and Diagnostics", "Microsoft Support Diagnostic Tool"), keywords: kw("msdt")},
		},
	},
	{result: path("System", "Locale Services"), keywords: kw("localeservices", "locale")},
	{result: path("System", "Kerberos"), keywords: kw("kerberos")},
	{result: path("System", "Internet Communication Management"), keywords: kw("internetcommunication", "icm")},
	{result: path("System", "Error Reporting"), keywords: kw("errorreporting")},
	{result: path("System", "Event Log"), keywords: kw("eventlog")},
	{result: path("System", "Task Scheduler"), keywords: kw("taskscheduler")},
	{result: "System", keywords: kw("system")},

	// Network
	{
		result:   path("Network", "Connectivity"),
		keywords: kw("connectivity"),
		refine: []rule{
			{result: path("Network", "Connectivity", "Printing"), keywords: kw("print")},
		},
	},
	{result: path("Network", "Wi-Fi"), keywords: kw("wifi", "wireless")},
	{result: "Network", keywords: kw("network")},

	// Security
	{result: path("Security", "Microsoft Defender"), keywords: kw("defender")},
	{result: path("Security", "Windows Firewall"), keywords: kw("firewall")},
	{result: path("Security", "Smart Screen"), keywords: kw("smartscreen")},
	{result: path("Security", "Authentication"), keywords: kw("credentials", "authentication")},
	{result: "Security", keywords: kw("security")},

	// Applications
	{result: path("Applications", "Browser"), keywords: kw("browser", "edge", "internetexplorer")},
	{result: path("Applications", "Search"), keywords: kw("search")},
	{result: path("Applications", "Windows AI"), keywords: kw("windowsai")},
	{result: "Applications", keywords: kw("applicationmanagement", "app")},

	// User experience
	{result: path("User Experience", "Delivery Optimization"), keywords: kw("deliveryoptimization")},
	{result: path("User Experience", "Windows Logon"), keywords: kw("windowslogon", "logon")},
	{result: path("User Experience", "Remote Desktop"), keywords: kw("remotedesktop", "remote")},
	{result: "User Experience", keywords: kw("experience", "user")},

	{result: "Privacy", keywords: kw("privacy", "telemetry", "data")},
	{result: path("Updates", "Windows Update"), keywords: kw("windowsupdate", "update")},

	// Device
	{result: path("Device Settings", "Bluetooth"), keywords: kw("bluetooth")},
	{result: "Device Settings", keywords: kw("device", "hardware")},

	{result: "Administrative Templates", keywords: kw("admx")},

	{result: "Authentication", keywords: kw("password", "pin", "auth")},
	{result: "Compliance", keywords: kw("compliance")},
	{result: "Encryption", keywords: kw("encryption", "bitlocker")},
}

// omaURIRules match path fragments of the Policy CSP URI scheme.
var omaURIRules = cascade{
	{result: "Windows AI", keywords: kw("/device/vendor/msft/policy/config/windowsai")},
	{result: "Application Control", keywords: kw("/device/vendor/msft/policy/config/applicationcontrol")},
	{result: "Security", keywords: kw("/device/vendor/msft/policy/config/security")},
	{result: "Windows Defender", keywords: kw("/device/vendor/msft/policy/config/defender")},
	{result: "Windows Firewall", keywords: kw("/device/vendor/msft/policy/config/firewall")},
	{result: "Privacy", keywords: kw("/device/vendor/msft/policy/config/privacy")},
	{result: "Windows Update", keywords: kw("/device/vendor/msft/policy/config/update")},
	{result: "Device Lock", keywords: kw("/device/vendor/msft/policy/config/devicelock")},
	{result: "BitLocker", keywords: kw("/device/vendor/msft/policy/config/bitlocker")},
	{result: "Authentication", keywords: kw("/device/vendor/msft/policy/config/authentication")},
	{result: "Browser", keywords: kw("/device/vendor/msft/policy/config/browser")},
	{result: "App Runtime", keywords: kw("/device/vendor/msft/policy/config/appruntime")},
	{result: "Connectivity", keywords: kw("/device/vendor/msft/policy/config/connectivity")},
	{result: "Device Installation", keywords: kw("/device/vendor/msft/policy/config/deviceinstallation")},
	{result: "User Experience", keywords: kw("/device/vendor/msft/policy/config/experience")},
	{result: "System", keywords: kw("/device/vendor/msft/policy/config/system")},
	{result: "ADMX Settings", keywords: kw("/device/vendor/msft/policy/config/admx")},
	{result: "Delivery Optimization", keywords: kw("/device/vendor/msft/policy/config/deliveryoptimization")},
	{result: "Camera", keywords: kw("/device/vendor/msft/policy/config/camera")},
	{result: "Bluetooth", keywords: kw("/device/vendor/msft/policy/config/bluetooth")},
}

// DefaultOmaURICategory is the fallback for URIs outside the known Policy CSP areas.
const DefaultOmaURICategory = "Device Configuration"

// settingKeyRules categorize a free-form display name.
var settingKeyRules = cascade{
	{result: "Delivery Optimization", keywords: kw("delivery", "optimization", "download")},
	{result: "Security", keywords: kw("security", "firewall", "defender")},
	{result: "Authentication", keywords: kw("password", "pin", "auth")},
	{result: "Device Settings", keywords: kw("device", "hardware")},
	{result: "Application Settings", keywords: kw("app", "application")},
	{result: "Network", keywords: kw("network", "wifi", "vpn")},
	{result: "Updates", keywords: kw("update", "patch")},
	{result: "Compliance", keywords: kw("compliance")},
	{result: "Encryption", keywords: kw("encryption", "bitlocker")},
	{result: DefaultCategory, keywords: kw("scope", "tag")},
	{result: "Delivery Optimization", keywords: kw("peer", "cache", "ram", "disk")},
}

// CategorizeField categorizes a device configuration property name.
func CategorizeField(name string) string {
	return fieldRules.resolve(name, DefaultCategory)
}

// CategorizeSettingID returns a hierarchical category for a settings-catalog definition id.
func CategorizeSettingID(id string) string {
	return settingIDRules.resolve(id, DefaultCategory)
}

// CategorizeOmaURI categorizes an OMA-URI by its Policy CSP area.
func CategorizeOmaURI(uri string) string {
	return omaURIRules.resolve(uri, DefaultOmaURICategory)
}

// CategorizeSettingKey categorizes a human display name.
func CategorizeSettingKey(key string) string {
	return settingKeyRules.resolve(key, DefaultCategory)
}
