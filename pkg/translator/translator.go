package translator

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed translation/*.toml
var catalogs embed.FS

var Translator *i18n.Bundle

const (
	LanguageEn = "en"
	LanguageFr = "fr"
)

// InitTranslator loads the embedded message catalogs into the bundle.
// English is the fallback for keys missing from other catalogs.
func InitTranslator() {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := catalogs.ReadDir("translation")
	if err != nil {
		zap.L().Error("failed to read embedded translation catalogs", zap.Error(err))
		return
	}
	for _, entry := range entries {
		if _, err := Translator.LoadMessageFileFS(catalogs, "translation/"+entry.Name()); err != nil {
			zap.L().Warn("failed to load translation catalog",
				zap.String("file", entry.Name()), zap.Error(err))
		}
	}
}
