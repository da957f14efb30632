package i18n

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/erazemk/milaap/internal/model"
)

func TestTranslate(t *testing.T) {
	b := MustLoad()

	tests := []struct {
		name   string
		lang   string
		key    string
		params map[string]string
		want   string
	}{
		{"plain", model.LangEnglish, "errors.not_found", nil, "The requested record was not found."},
		{"nested with params", model.LangEnglish, "citizen.claim_item.notification_message",
			map[string]string{"item": "Black Wallet"},
			"Your claim for 'Black Wallet' has been submitted and will be reviewed by the police."},
		{"hindi", model.LangHindi, "common.no_reason_provided", nil, "कोई कारण नहीं दिया गया"},
		{"unknown language falls back", "fr", "common.no_reason_provided", nil, "No reason provided"},
		{"missing key", model.LangGujarati, "no.such.key", nil, "no.such.key"},
		{"unused param", model.LangEnglish, "errors.generic", map[string]string{"x": "y"},
			"Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.T(tt.lang, tt.key, tt.params); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestFallbackToEnglishForMissingKey(t *testing.T) {
	b := MustLoad()
	if err := b.Add(model.LangHindi, []byte("common:\n  site_name: \"मिलाप\"\n")); err != nil {
		t.Fatal(err)
	}

	if got := b.T(model.LangHindi, "common.site_name", nil); got != "मिलाप" {
		t.Errorf("expected replaced Hindi table, got %q", got)
	}
	if got := b.T(model.LangHindi, "errors.generic", nil); got != "Something went wrong. Please try again." {
		t.Errorf("expected English fallback, got %q", got)
	}
}

func TestAddRejectsInvalidYAML(t *testing.T) {
	b := MustLoad()
	if err := b.Add("xx", []byte("key: [unterminated")); err == nil {
		t.Error("expected parse error")
	}
}

// Every language must define the same keys as English.
func TestTablesHaveSameKeys(t *testing.T) {
	b := MustLoad()

	want := b.Keys(model.LangEnglish)
	sort.Strings(want)
	for _, lang := range model.SupportedLanguages[1:] {
		got := b.Keys(lang)
		sort.Strings(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s keys differ from en (-en +%s):\n%s", lang, lang, diff)
		}
	}
}
