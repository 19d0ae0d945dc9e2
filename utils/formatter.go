package utils

import "github.com/ccenter-uz/1009-organization-service-sub000/models"

// TranslationName collapses translation rows to the single name for lang.
// Returns "" when the language is absent from the rows.
func TranslationName(rows []models.Translation, lang models.LanguageCode) string {
	for _, row := range rows {
		if row.LanguageCode == lang {
			return row.Name
		}
	}
	return ""
}

// TranslationMap collapses translation rows into a language-keyed map.
// Empty input yields an empty map.
func TranslationMap(rows []models.Translation) models.LocalizedName {
	out := make(models.LocalizedName, len(rows))
	for _, row := range rows {
		out[row.LanguageCode] = row.Name
	}
	return out
}

// FormatName renders translation rows for a response: a bare string when one
// language was requested, otherwise a map keyed by language code.
func FormatName(rows []models.Translation, lang models.LanguageCode) interface{} {
	if lang != "" {
		return TranslationName(rows, lang)
	}
	return TranslationMap(rows)
}

// ExpandName is the inverse of TranslationMap: it turns a language-keyed map
// back into translation rows. Row order is unspecified.
func ExpandName(name models.LocalizedName) []models.Translation {
	rows := make([]models.Translation, 0, len(name))
	for _, lang := range models.AllLanguages {
		if n, ok := name[lang]; ok {
			rows = append(rows, models.Translation{LanguageCode: lang, Name: n})
		}
	}
	return rows
}
