package normalizer

import (
	"strings"

	"policyscope/internal/models"
	"policyscope/internal/resolver"
)

// Keys of a settings catalog instance.
const (
	fieldSettingInstance = "settingInstance"
	fieldDefinitionID    = "settingDefinitionId"
	fieldChoiceValue     = "choiceSettingValue"
	fieldSimpleValue     = "simpleSettingValue"
	fieldSimpleList      = "simpleSettingCollectionValue"
	fieldChoiceList      = "choiceSettingCollectionValue"
	fieldGroupList       = "groupSettingCollectionValue"
	fieldChildren        = "children"
)

// fallbackSkipped are ignored when a setting object is flattened field by field.
var fallbackSkipped = map[string]bool{
	"id":                   true,
	"createdDateTime":      true,
	"lastModifiedDateTime": true,
	fieldSettingInstance:   true,
}

// DecodeSetting turns one raw setting object into display entries. The
// shapes are tried in order and the first match wins:
//
//  1. an object with displayName and value (OMA-URI style)
//  2. an array, decoded element by element
//  3. a settings catalog object with settingInstance.settingDefinitionId
//  4. any other object, flattened field by field
//
// Values that are neither objects nor arrays yield no entries.
func DecodeSetting(v any) []models.Setting {
	if obj, ok := models.AsRecord(v); ok && isNamedValue(obj) {
		return []models.Setting{decodeNamedValue(obj)}
	}

	if arr, ok := v.([]any); ok {
		var settings []models.Setting
		for _, item := range arr {
			settings = append(settings, DecodeSetting(item)...)
		}

		return settings
	}

	obj, ok := models.AsRecord(v)
	if !ok {
		return nil
	}

	if instance := obj.Object(fieldSettingInstance); instance != nil && instance.String(fieldDefinitionID) != "" {
		return decodeInstance(instance)
	}

	return decodeFallback(obj)
}

func isNamedValue(obj models.RawRecord) bool {
	return obj.String("displayName") != "" && obj.Has("value")
}

func decodeNamedValue(obj models.RawRecord) models.Setting {
	name := obj.String("displayName")

	category := resolver.CategorizeSettingKey(name)
	if uri := obj.String("omaUri"); uri != "" {
		category = resolver.CategorizeOmaURI(uri)
	}

	var value string

	switch {
	case obj.Present("value"):
		value = resolver.TranslateValue(models.Stringify(obj["value"]), name)
	case obj.Present("secretReferenceValueId"):
		value = models.EncryptedRef
	case obj.Bool("isEncrypted"):
		value = models.Encrypted
	default:
		value = models.NoValue
	}

	return models.Setting{
		Category:    category,
		Key:         name,
		Value:       value,
		Description: obj.String("description"),
	}
}

// expandSettingsArray decodes the elements of an OMA-style array that carry
// a displayName and a value. Other elements are skipped.
func expandSettingsArray(arr []any) []models.Setting {
	var settings []models.Setting

	for _, item := range arr {
		obj, ok := models.AsRecord(item)
		if !ok || !isNamedValue(obj) {
			continue
		}

		settings = append(settings, decodeNamedValue(obj))
	}

	return settings
}

// decodeInstance emits the instance itself followed by its children.
// Group collections are containers and only contribute their children,
// unless none of them decode.
func decodeInstance(instance models.RawRecord) []models.Setting {
	id := instance.String(fieldDefinitionID)
	if id == "" {
		return nil
	}

	var children []models.Setting
	for _, child := range instanceChildren(instance) {
		children = append(children, decodeInstance(child)...)
	}

	if instance.Present(fieldGroupList) && len(children) > 0 {
		return children
	}

	key := resolver.FormatKey(id)
	self := models.Setting{
		Category: resolver.CategorizeSettingID(id),
		Key:      key,
		Value:    instanceValue(instance, key),
	}

	return append([]models.Setting{self}, children...)
}

func instanceValue(instance models.RawRecord, key string) string {
	if choice, _ := instance.Path(fieldChoiceValue, "value").(string); choice != "" {
		return resolver.TranslateValue(choice, key)
	}

	if simple := instance.Object(fieldSimpleValue); simple != nil && simple.Present("value") {
		return resolver.TranslateValue(models.Stringify(simple["value"]), key)
	}

	for _, field := range []string{fieldSimpleList, fieldChoiceList} {
		items := instance.Slice(field)
		if len(items) == 0 {
			continue
		}

		values := make([]string, 0, len(items))
		for _, item := range items {
			if obj, ok := models.AsRecord(item); ok && obj.Present("value") {
				values = append(values, resolver.TranslateValue(models.Stringify(obj["value"]), key))
			}
		}

		if len(values) > 0 {
			return strings.Join(values, ", ")
		}
	}

	return models.UnknownValue
}

func instanceChildren(instance models.RawRecord) []models.RawRecord {
	var children []models.RawRecord

	collect := func(items []any) {
		for _, item := range items {
			if child, ok := models.AsRecord(item); ok {
				children = append(children, child)
			}
		}
	}

	if choice := instance.Object(fieldChoiceValue); choice != nil {
		collect(choice.Slice(fieldChildren))
	}

	for _, item := range instance.Slice(fieldChoiceList) {
		if obj, ok := models.AsRecord(item); ok {
			collect(obj.Slice(fieldChildren))
		}
	}

	for _, item := range instance.Slice(fieldGroupList) {
		if obj, ok := models.AsRecord(item); ok {
			collect(obj.Slice(fieldChildren))
		}
	}

	return children
}

func decodeFallback(obj models.RawRecord) []models.Setting {
	var settings []models.Setting

	for _, key := range sortedKeys(obj) {
		v := obj[key]
		if v == nil || fallbackSkipped[key] || strings.HasPrefix(key, "@odata") {
			continue
		}

		if isScopeTagField(strings.ToLower(key)) {
			continue
		}

		if looksLikeSettingsArray(key, v) {
			settings = append(settings, expandSettingsArray(v.([]any))...)

			continue
		}

		settings = append(settings, models.Setting{
			Category: resolver.CategorizeSettingKey(key),
			Key:      resolver.FormatKey(key),
			Value:    displayValue(v),
		})
	}

	return settings
}
