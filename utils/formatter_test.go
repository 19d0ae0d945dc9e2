package utils

import (
	"testing"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"

	"github.com/stretchr/testify/assert"
)

var sampleTranslations = []models.Translation{
	{LanguageCode: models.LanguageRU, Name: "Наманган"},
	{LanguageCode: models.LanguageUZ, Name: "Namangan"},
	{LanguageCode: models.LanguageCY, Name: "Наманган"},
}

func TestTranslationName(t *testing.T) {
	assert.Equal(t, "Namangan", TranslationName(sampleTranslations, models.LanguageUZ))
	assert.Equal(t, "", TranslationName(sampleTranslations, "en"))
	assert.Equal(t, "", TranslationName(nil, models.LanguageRU))
}

func TestTranslationMap(t *testing.T) {
	m := TranslationMap(sampleTranslations)

	assert.Len(t, m, 3)
	assert.Equal(t, "Наманган", m[models.LanguageRU])
	assert.Equal(t, "Namangan", m[models.LanguageUZ])

	assert.NotNil(t, TranslationMap(nil))
	assert.Empty(t, TranslationMap(nil))
}

func TestFormatName(t *testing.T) {
	single := FormatName(sampleTranslations, models.LanguageUZ)
	assert.Equal(t, "Namangan", single)

	all := FormatName(sampleTranslations, "")
	m, ok := all.(models.LocalizedName)
	assert.True(t, ok)
	assert.Len(t, m, 3)
}

func TestExpandNameRoundTrip(t *testing.T) {
	rows := ExpandName(TranslationMap(sampleTranslations))

	assert.Len(t, rows, 3)
	assert.Equal(t, TranslationMap(sampleTranslations), TranslationMap(rows))
}

func TestExpandNameSkipsUnknownLanguages(t *testing.T) {
	rows := ExpandName(models.LocalizedName{
		models.LanguageRU: "Чуст",
		"en":              "Chust",
	})

	assert.Len(t, rows, 1)
	assert.Equal(t, models.LanguageRU, rows[0].LanguageCode)
}
