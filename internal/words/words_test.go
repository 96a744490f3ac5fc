package words

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testCatalog() *Catalog { return NewCatalog(builtin) }

func TestEmbeddedCatalogLoads(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if len(c.Categories()) < 3 {
		t.Fatalf("expected at least 3 categories, got %d", len(c.Categories()))
	}
	for _, p := range c.All() {
		if _, err := ValidateWord(p.Word); err != nil {
			t.Errorf("embedded word %q invalid: %v", p.Word, err)
		}
		if _, err := ValidateHint(p.Hint); err != nil {
			t.Errorf("embedded hint for %q invalid: %v", p.Word, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	doc := `{"categories":[{"id":"birds","name":"Birds","words":[{"word":" owl ","hint":"Hoots at night","difficulty":"easy"}]}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := c.RandomWord("birds", "easy")
	if p.Word != "OWL" || p.Category != "birds" {
		t.Fatalf("unexpected pick: %+v", p)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseSkipsInvalidWords(t *testing.T) {
	doc := `{"categories":[{"id":"food","name":"Food","words":[
		{"word":"ice cream","hint":"Frozen dessert","difficulty":"easy"},
		{"word":"r2d2","hint":"Not a food at all","difficulty":"easy"},
		{"word":"x","hint":"Far too short","difficulty":"easy"},
		{"word":"bread","hint":"Baked loaf","difficulty":"easy"}]}]}`
	c, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := c.WordsByCategory("food")
	if len(got) != 1 || got[0].Word != "BREAD" {
		t.Fatalf("expected only BREAD to survive, got %+v", got)
	}

	if err := c.Import([]byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, p := range c.All() {
		if _, err := ValidateWord(p.Word); err != nil {
			t.Errorf("import kept invalid word %q", p.Word)
		}
	}
}

func TestRandomWordFilters(t *testing.T) {
	c := testCatalog()
	for i := 0; i < 50; i++ {
		p := c.RandomWord("technology", "hard")
		if p.Category != "technology" || p.Difficulty != "hard" {
			t.Fatalf("filter ignored: %+v", p)
		}
		r := c.RandomWord(Any, Any)
		if r.Category == Any || r.Word == "" {
			t.Fatalf("random pick must carry its real category: %+v", r)
		}
	}
}

func TestRandomWordWidensEmptyFilter(t *testing.T) {
	c := testCatalog()
	p := c.RandomWord("countries", "hard")
	if p.Word == "" || p.Word == Fallback.Word {
		t.Fatalf("expected a catalog word, got %+v", p)
	}
	if got := NewCatalog(nil).RandomWord(Any, Any); got != Fallback {
		t.Fatalf("expected fallback for empty catalog, got %+v", got)
	}
}

func TestAddAndRemoveWord(t *testing.T) {
	c := testCatalog()
	if err := c.AddCustomWord("parrot", "Talking bird", "birds", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := c.WordsByCategory("birds"); len(got) != 1 || got[0].Word != "PARROT" || got[0].Difficulty != "medium" {
		t.Fatalf("unexpected birds: %+v", got)
	}
	if err := c.AddCustomWord("PARROT", "Talking bird", "birds", "easy"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := c.AddCustomWord("x", "Too short", "birds", "easy"); !errors.Is(err, ErrInvalidWord) {
		t.Fatalf("expected invalid word, got %v", err)
	}
	if err := c.AddCustomWord("robin", "Red", "birds", "easy"); !errors.Is(err, ErrInvalidHint) {
		t.Fatalf("expected invalid hint, got %v", err)
	}
	if err := c.RemoveWord("parrot", "birds"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := c.RemoveWord("parrot", "birds"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidateWord(t *testing.T) {
	cases := map[string]bool{
		"CAT":                   true,
		"  cat ":                true,
		"A":                     false,
		"":                      false,
		"ABCDEFGHIJKLMNOPQRSTU": false,
		"ICE-CREAM":             false,
		"R2D2":                  false,
	}
	for in, ok := range cases {
		_, err := ValidateWord(in)
		if (err == nil) != ok {
			t.Errorf("ValidateWord(%q): err=%v, want ok=%v", in, err, ok)
		}
	}
	if _, err := ValidateHint(strings.Repeat("x", 101)); err == nil {
		t.Errorf("expected long hint to fail")
	}
}

func TestSearchStatsExportImport(t *testing.T) {
	c := testCatalog()
	if got := c.Search("pet", "all", "all"); len(got) != 1 || got[0].Word != "CAT" {
		t.Fatalf("unexpected search result: %+v", got)
	}
	if got := c.Search("", "technology", "hard"); len(got) != 2 {
		t.Fatalf("expected 2 hard technology words, got %d", len(got))
	}
	if got := c.WordsByDifficulty("easy"); len(got) != 6 {
		t.Fatalf("expected 6 easy words, got %d", len(got))
	}

	st := c.Stats()
	if st.TotalWords != 12 || st.Categories != 3 || st.DifficultyDistribution["hard"] != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.CategoryStats["animals"].DifficultyDistribution["medium"] != 2 {
		t.Fatalf("unexpected animal stats: %+v", st.CategoryStats["animals"])
	}

	data, err := c.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	other := NewCatalog(nil)
	if err := other.Import(data); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(other.All()) != 12 {
		t.Fatalf("expected 12 imported words, got %d", len(other.All()))
	}
	if err := other.Import([]byte(`{"categories":[]}`)); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected invalid document, got %v", err)
	}
	if err := other.Import([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if len(other.All()) != 12 {
		t.Fatalf("failed import must not replace catalog")
	}
}
