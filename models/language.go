package models

// LanguageCode identifies one of the supported directory languages.
type LanguageCode string

const (
	LanguageRU LanguageCode = "ru"
	LanguageUZ LanguageCode = "uz"
	LanguageCY LanguageCode = "cy"
)

// AllLanguages lists every language a name can be translated into.
var AllLanguages = []LanguageCode{LanguageRU, LanguageUZ, LanguageCY}

// IsValidLanguage reports whether code is one of the supported languages.
func IsValidLanguage(code LanguageCode) bool {
	for _, l := range AllLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// Translation is one language's rendering of a name field.
type Translation struct {
	LanguageCode LanguageCode `json:"language_code" validate:"required,oneof=ru uz cy"`
	Name         string       `json:"name" validate:"required,max=200"`
}

// LocalizedName maps language codes to a name's translations.
type LocalizedName map[LanguageCode]string
