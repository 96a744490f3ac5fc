// assets/embed.go
//
// Embedded default word catalog. WORDS_FILE overrides it at runtime.

package assets

import "embed"

//go:embed categories.json
var FS embed.FS

// CategoriesJSON returns the embedded catalog document.
func CategoriesJSON() ([]byte, error) {
	return FS.ReadFile("categories.json")
}
