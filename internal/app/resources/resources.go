// internal/app/resources/resources.go
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the layout and the partials every feature renders into:
// layout_head/layout_foot, pagination, data_table and stat_cards.
//
//go:embed templates/*.gohtml
var FS embed.FS

var registerOnce sync.Once

// LoadSharedTemplates registers the shared set. Feature sets register
// themselves from init; this one is registered from startup so the layout
// is always present before the engine boots.
func LoadSharedTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     "layout",
			FS:       FS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}
