package resolver

import (
	"strings"

	"policyscope/internal/models"
)

type platformRule struct {
	platform models.Platform
	tokens   []string
}

// odataPlatformRules match @odata.type hints such as
// "#microsoft.graph.windows10GeneralConfiguration".
var odataPlatformRules = []platformRule{
	{platform: models.PlatformWindows, tokens: kw("windows", "win32")},
	{platform: models.PlatformIOS, tokens: kw("ios", "iphone")},
	{platform: models.PlatformAndroid, tokens: kw("android")},
	{platform: models.PlatformMacOS, tokens: kw("macos", "mac")},
}

// catalogPlatformRules match the settings-catalog "platforms" field, e.g. "windows10".
var catalogPlatformRules = []platformRule{
	{platform: models.PlatformWindows, tokens: kw("windows")},
	{platform: models.PlatformIOS, tokens: kw("ios")},
	{platform: models.PlatformAndroid, tokens: kw("android")},
	{platform: models.PlatformMacOS, tokens: kw("macos")},
}

// DeterminePlatform infers the platform from an @odata.type or similar hint.
func DeterminePlatform(typeHint string) models.Platform {
	return matchPlatform(odataPlatformRules, typeHint)
}

// MapPlatformFromString maps a settings-catalog "platforms" value.
func MapPlatformFromString(platforms string) models.Platform {
	return matchPlatform(catalogPlatformRules, platforms)
}

func matchPlatform(rules []platformRule, hint string) models.Platform {
	lower := strings.ToLower(hint)

	for _, r := range rules {
		for _, token := range r.tokens {
			if strings.Contains(lower, token) {
				return r.platform
			}
		}
	}

	return models.PlatformAll
}
