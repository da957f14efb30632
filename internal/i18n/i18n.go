// Package i18n resolves dotted message keys against the en, hi and gu tables.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/milaap/internal/model"
)

//go:embed locales/*.yaml
var locales embed.FS

// Translator renders a message key in a language. Placeholders of the form
// {name} are replaced from params.
type Translator interface {
	T(lang, key string, params map[string]string) string
}

// Bundle holds one flattened table per language.
type Bundle struct {
	tables   map[string]map[string]string
	fallback string
}

// Load reads the embedded tables for every supported language.
func Load() (*Bundle, error) {
	b := &Bundle{tables: make(map[string]map[string]string), fallback: model.LangEnglish}
	for _, lang := range model.SupportedLanguages {
		data, err := locales.ReadFile(path.Join("locales", lang+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("reading %s translations: %w", lang, err)
		}
		if err := b.Add(lang, data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// MustLoad is like Load but panics on error.
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// Add parses a YAML table and stores it for lang, replacing any previous one.
func (b *Bundle) Add(lang string, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s translations: %w", lang, err)
	}
	table := make(map[string]string)
	flatten("", raw, table)
	b.tables[lang] = table
	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(key, v, out)
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}

// T implements Translator. Unknown languages use English; keys missing from
// the English table are returned unchanged.
func (b *Bundle) T(lang, key string, params map[string]string) string {
	msg, ok := b.tables[lang][key]
	if !ok {
		msg, ok = b.tables[b.fallback][key]
	}
	if !ok {
		return key
	}
	if len(params) == 0 {
		return msg
	}

	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Keys returns every key known for lang.
func (b *Bundle) Keys(lang string) []string {
	keys := make([]string, 0, len(b.tables[lang]))
	for k := range b.tables[lang] {
		keys = append(keys, k)
	}
	return keys
}
