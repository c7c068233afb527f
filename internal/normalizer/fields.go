package normalizer

import "strings"

// deviceSettingFields are well-known device configuration properties that
// are settings in their own right.
var deviceSettingFields = []string{
	// Password and PIN
	"passwordRequired", "passwordMinimumLength", "passwordRequiredType",
	"passwordMinutesOfInactivityBeforeLock", "passwordExpirationDays",
	"passwordPreviousPasswordBlockCount", "passwordSignInFailureCountBeforeFactoryReset",
	"passwordBlockSimple", "passwordMinimumCharacterSetCount", "passwordRequireWhenResumeFromIdleState",

	// Storage and hardware
	"storageRequireEncryption", "storageBlockRemovableStorage",
	"cameraBlocked", "bluetoothBlocked", "wifiBlocked", "voiceRoamingBlocked",
	"dataRoamingBlocked", "messagesBlocked", "wirelessDisplayBlocked",
	"screenCaptureBlocked", "deviceSharingAllowed", "factoryResetBlocked",
	"usbBlocked", "antiTheftModeBlocked", "windowsSpotlightBlocked",
	"nfcBlocked", "cellularBlockDataRoaming", "bitLockerEncryptDevice",

	// Browser and network
	"edgeBlocked", "edgeBlockAccessToAboutFlags", "smartScreenEnabled",
	"smartScreenBlockPromptOverride", "smartScreenBlockPromptOverrideForFiles",
	"webRtcBlockLocalhostIpAddress", "internetSharingBlocked",
	"safariBlockAutofill", "firewallBlockStatefulFTP",

	// Settings app
	"settingsBlockAddProvisioningPackage", "settingsBlockRemoveProvisioningPackage",
	"settingsBlockChangeSystemTime", "settingsBlockEditDeviceName",
	"settingsBlockChangeRegion", "settingsBlockChangeLanguage",
	"settingsBlockChangePowerSleep", "locationServicesBlocked",

	// Accounts
	"microsoftAccountBlocked", "microsoftAccountBlockSettingsSync",
	"microsoftAccountSignInAssistantSettings", "googleAccountBlockAutoSync",
	"iCloudBlockBackup", "resetProtectionModeBlocked",

	// Power
	"powerButtonActionOnBattery", "powerButtonActionPluggedIn",
	"powerLidCloseActionOnBattery", "powerLidCloseActionPluggedIn",
	"powerHybridSleepOnBattery", "powerHybridSleepPluggedIn",

	// Defender
	"defenderRequireRealTimeMonitoring", "defenderBlockEndUserAccess",
	"defenderScanType", "defenderCloudBlockLevel", "defenderPotentiallyUnwantedAppAction",

	// Apps and deployment
	"windows10AppsForceUpdateSchedule", "enableAutomaticRedeployment",
	"appStoreBlocked", "googlePlayStoreBlocked", "kioskModeBlockSleepButton",

	// Authentication and cryptography
	"authenticationAllowSecondaryDevice", "authenticationWebSignIn",
	"authenticationPreferredAzureADTenantDomainName", "cryptographyAllowFipsAlgorithmPolicy",

	// Display
	"displayAppListWithGdiDPIScalingTurnedOn", "displayAppListWithGdiDPIScalingTurnedOff",

	// Enterprise cloud print
	"enterpriseCloudPrintDiscoveryEndPoint", "enterpriseCloudPrintOAuthAuthority",
	"enterpriseCloudPrintOAuthClientIdentifier", "enterpriseCloudPrintResourceIdentifier",
	"enterpriseCloudPrintDiscoveryMaxLimit", "enterpriseCloudPrintMopriaDiscoveryResourceIdentifier",

	// Experience and logon
	"experienceBlockDeviceDiscovery", "experienceBlockErrorDialogWhenNoSIM",
	"experienceBlockTaskSwitcher", "logonBlockFastUserSwitching",
}

var deviceSettingFieldSet = func() map[string]bool {
	set := make(map[string]bool, len(deviceSettingFields))
	for _, f := range deviceSettingFields {
		set[f] = true
	}

	return set
}()

// bookkeepingFields carry record metadata, not configuration.
var bookkeepingFields = map[string]bool{
	"id":                   true,
	"displayName":          true,
	"name":                 true,
	"description":          true,
	"createdDateTime":      true,
	"lastModifiedDateTime": true,
	"version":              true,
	"createdBy":            true,
	"assignments":          true,
	"roleScopeTagIds":      true,
	"supportsScopeTags":    true,
}

func isBookkeeping(key string) bool {
	if bookkeepingFields[key] {
		return true
	}

	lower := strings.ToLower(key)

	return strings.Contains(lower, "@odata") || isScopeTagField(lower)
}

func isScopeTagField(lower string) bool {
	return strings.Contains(lower, "rolescopetagids") ||
		strings.Contains(lower, "supportsscopetags") ||
		strings.Contains(lower, "role scope tag") ||
		strings.Contains(lower, "supports scope tags")
}

// looksLikeSettingsArray matches field names such as "omaSettings".
func looksLikeSettingsArray(key string, v any) bool {
	if _, ok := v.([]any); !ok {
		return false
	}

	lower := strings.ToLower(key)

	return strings.Contains(lower, "oma") || strings.Contains(lower, "settings")
}

// complianceFields are reported under "Compliance Requirements".
var complianceFields = []namedField{
	{label: "Password Required", field: "passwordRequired"},
	{label: "Password Minimum Length", field: "passwordMinimumLength"},
	{label: "Password Type", field: "passwordRequiredType"},
	{label: "Inactivity Lock (minutes)", field: "passwordMinutesOfInactivityBeforeLock"},
	{label: "Storage Encryption Required", field: "storageRequireEncryption"},
	{label: "Minimum OS Version", field: "osMinimumVersion"},
	{label: "Maximum OS Version", field: "osMaximumVersion"},
	{label: "Threat Protection Enabled", field: "deviceThreatProtectionEnabled"},
	{label: "Security Level", field: "deviceThreatProtectionRequiredSecurityLevel"},
	{label: "Antimalware Required", field: "securityRequireUpToDateAntiMalware"},
}

// appProtectionFields are reported under "App Protection".
var appProtectionFields = []namedField{
	{label: "Offline Access Check", field: "periodOfflineBeforeAccessCheck"},
	{label: "Online Access Check", field: "periodOnlineBeforeAccessCheck"},
	{label: "Inbound Data Transfer", field: "allowedInboundDataTransferSources"},
	{label: "Outbound Data Transfer", field: "allowedOutboundDataTransferDestinations"},
	{label: "Organizational Credentials Required", field: "organizationalCredentialsRequired"},
	{label: "Clipboard Sharing", field: "allowedOutboundClipboardSharingLevel"},
	{label: "Data Backup Blocked", field: "dataBackupBlocked"},
	{label: "Device Compliance Required", field: "deviceComplianceRequired"},
	{label: "Managed Browser Required", field: "managedBrowserToOpenLinksRequired"},
	{label: "Save As Blocked", field: "saveAsBlocked"},
	{label: "PIN Required", field: "pinRequired"},
	{label: "Maximum PIN Retries", field: "maximumPinRetries"},
	{label: "Simple PIN Blocked", field: "simplePinBlocked"},
	{label: "Minimum PIN Length", field: "minimumPinLength"},
	{label: "Contact Sync Blocked", field: "contactSyncBlocked"},
	{label: "Print Blocked", field: "printBlocked"},
	{label: "Fingerprint Blocked", field: "fingerprintBlocked"},
}

// Fixed categories.
const (
	CategoryCompliance    = "Compliance Requirements"
	CategoryAppProtection = "App Protection"
	CategoryDeviceSection = "Device Settings"
	CategoryUserSection   = "User Settings"
)
