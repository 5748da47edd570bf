// internal/app/features/startups/templates.go
package startups

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "startups",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
