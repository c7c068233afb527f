package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"policyscope/internal/models"
)

func TestFormatKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "camelCase", in: "passwordRequired", want: "Password Required"},
		{name: "snake_case", in: "allow_camera", want: "Allow camera"},
		{name: "leading capital", in: "PINRequired", want: "P I N Required"},
		{name: "single word", in: "enabled", want: "Enabled"},
		{name: "empty", in: "", want: ""},
		{
			name: "policy id",
			in:   "device_vendor_msft_policy_config_defender_allowrealtimemonitoring",
			want: "Microsoft Defender: Allowrealtimemonitoring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKey(tt.in))
		})
	}
}

func TestFormatKey_PolicyIDContainsComponent(t *testing.T) {
	got := FormatKey("device_vendor_msft_policy_config_defender_allowrealtimemonitoring")
	assert.Contains(t, got, "Microsoft Defender")
}

func TestParseSettingID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "component and action",
			in:   "device_vendor_msft_policy_config_admx_icm_shellhousestoreopenwith_2",
			want: "Administrative Template: Information Collection: Shell House Store Open With",
		},
		{
			name: "numeric and single-letter segments dropped",
			in:   "device_vendor_msft_policy_config_connectivity_1_x_disabledownloadingofprintdriversoverhttp",
			want: "Network Connectivity: Disable Downloading of Print Drivers over HTTP",
		},
		{
			name: "unmapped segment capitalized",
			in:   "device_vendor_msft_policy_config_experience_allowcortana",
			want: "User Experience: Allowcortana",
		},
		{
			name: "user scope prefix",
			in:   "user_vendor_msft_policy_config_microsoftedge_homepage",
			want: "Microsoft Edge: Homepage",
		},
		{
			name: "short result falls back",
			in:   "device_vendor_msft_policy_config_ab_1",
			want: "Ab 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSettingID(tt.in))
		})
	}
}

func TestCategorizeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "passwordMinimumLength", want: "Authentication"},
		{in: "cameraBlocked", want: "Hardware"},
		{in: "storageRequireEncryption", want: "Storage & Encryption"},
		{in: "screenCaptureBlocked", want: "Display"},
		{in: "powerLidCloseActionOnBattery", want: "Power Management"},
		{in: "microsoftAccountBlocked", want: "Microsoft Account"},
		{in: "edgeBlocked", want: "Web & Browser"},
		{in: "settingsBlockChangeSystemTime", want: "System Settings"},
		{in: "locationServicesBlocked", want: "System Settings"},
		{in: "deviceSharingAllowed", want: "Privacy"},
		{in: "logonBlockFastUserSwitching", want: "System Settings"},
		{in: "experienceAllowed", want: "User Experience"},
		{in: "enterpriseCloudPrintOAuthAuthority", want: "Authentication"},
		{in: "cloudPrinterId", want: "Cloud & Printing"},
		{in: "totallyUnknownField123", want: "General"},
		{in: "", want: "General"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeField(tt.in))
		})
	}
}

func TestCategorizeSettingID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   "device_vendor_msft_policy_config_admx_msdt_diagnostics_msdtsupportprovider",
			want: "System > Troubleshooting and Diagnostics > Microsoft Support Diagnostic Tool",
		},
		{in: "device_vendor_msft_policy_config_troubleshooting_allowrecommendations", want: "System > Troubleshooting and Diagnostics"},
		{in: "device_vendor_msft_policy_config_kerberos_pkinithashalgorithm", want: "System > Kerberos"},
		{in: "device_vendor_msft_policy_config_admx_icm_nc_exitonisp", want: "System > Internet Communication Management"},
		{
			in:   "device_vendor_msft_policy_config_connectivity_disabledownloadingofprintdriversoverhttp",
			want: "Network > Connectivity > Printing",
		},
		{in: "device_vendor_msft_policy_config_connectivity_allowvpnovercellular", want: "Network > Connectivity"},
		{in: "device_vendor_msft_policy_config_defender_allowrealtimemonitoring", want: "Security > Microsoft Defender"},
		{in: "device_vendor_msft_policy_config_browser_allowcookies", want: "Applications > Browser"},
		{in: "device_vendor_msft_policy_config_deliveryoptimization_domaxcachesize", want: "User Experience > Delivery Optimization"},
		{in: "device_vendor_msft_policy_config_bitlocker_encryptionmethod", want: "Device Settings"},
		{in: "bitlocker_encryptionmethod", want: "Encryption"},
		{in: "vendor_thing", want: "General"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeSettingID(tt.in))
		})
	}
}

func TestCategorizeOmaURI(t *testing.T) {
	assert.Equal(t, "Windows Defender", CategorizeOmaURI("./Device/Vendor/MSFT/Policy/Config/Defender/AllowIOAVProtection"))
	assert.Equal(t, "Camera", CategorizeOmaURI("./Device/Vendor/MSFT/Policy/Config/Camera/AllowCamera"))
	assert.Equal(t, "Windows Update", CategorizeOmaURI("./Device/Vendor/MSFT/Policy/Config/Update/AllowAutoUpdate"))
	assert.Equal(t, DefaultOmaURICategory, CategorizeOmaURI("./Vendor/MSFT/Firewall/MdmStore/Global/EnableFirewall"))
}

func TestCategorizeSettingKey(t *testing.T) {
	assert.Equal(t, "Delivery Optimization", CategorizeSettingKey("Max Download Bandwidth"))
	assert.Equal(t, "Security", CategorizeSettingKey("Defender Real-time Protection"))
	assert.Equal(t, "Application Settings", CategorizeSettingKey("Allow App Store"))
	assert.Equal(t, "General", CategorizeSettingKey("Role Scope Tags"))
	assert.Equal(t, "Delivery Optimization", CategorizeSettingKey("Peer Caching"))
	assert.Equal(t, "General", CategorizeSettingKey("Something Else"))
}

func TestTranslateValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		hint  string
		want  string
	}{
		{name: "zero", value: "0", want: "Disabled"},
		{name: "one", value: "1", want: "Enabled"},
		{name: "true", value: "true", want: "Enabled"},
		{name: "false uppercase", value: "FALSE", want: "Disabled"},
		{name: "not configured", value: "notConfigured", want: "Not Configured"},
		{name: "device default", value: "deviceDefault", want: "Device Default"},
		{name: "numeric two compat", value: "2", want: "Enabled"},
		{name: "numeric three compat", value: "3", want: "Disabled"},
		{name: "toggle hint float", value: "1.0", hint: "Turn on feature", want: "Enabled"},
		{name: "no toggle hint float", value: "1.0", hint: "Max size", want: "1.0"},
		{
			name:  "known choice id",
			value: "device_vendor_msft_policy_config_admx_icm_nc_exitonisp_1",
			want:  "Enabled",
		},
		{
			name:  "choice id suffix zero",
			value: "device_vendor_msft_policy_config_defender_allowrealtimemonitoring_0",
			want:  "Disabled",
		},
		{
			name:  "choice id suffix one",
			value: "device_vendor_msft_policy_config_defender_allowrealtimemonitoring_1",
			want:  "Enabled",
		},
		{
			name:  "choice id disable word",
			value: "device_vendor_msft_policy_config_system_disableonedrive_block",
			want:  "Disabled",
		},
		{
			name:  "choice id without state",
			value: "device_vendor_msft_policy_config_defender_puaprotection_auditmode",
			want:  "Configured",
		},
		{name: "free text capitalized", value: "block", want: "Block"},
		{name: "empty", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateValue(tt.value, tt.hint))
		})
	}
}

func TestDeterminePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want models.Platform
	}{
		{in: "#microsoft.graph.windows10GeneralConfiguration", want: models.PlatformWindows},
		{in: "#microsoft.graph.win32LobApp", want: models.PlatformWindows},
		{in: "#microsoft.graph.iosManagedAppProtection", want: models.PlatformIOS},
		{in: "#microsoft.graph.androidManagedAppProtection", want: models.PlatformAndroid},
		{in: "#microsoft.graph.macOSGeneralDeviceConfiguration", want: models.PlatformMacOS},
		{in: "compliance", want: models.PlatformAll},
		{in: "", want: models.PlatformAll},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DeterminePlatform(tt.in))
		})
	}
}

func TestMapPlatformFromString(t *testing.T) {
	assert.Equal(t, models.PlatformWindows, MapPlatformFromString("windows10"))
	assert.Equal(t, models.PlatformMacOS, MapPlatformFromString("macOS"))
	assert.Equal(t, models.PlatformAll, MapPlatformFromString("linux"))
	assert.Equal(t, models.PlatformAll, MapPlatformFromString(""))
}
