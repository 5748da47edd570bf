// internal/app/features/backup/templates.go
package backup

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "backup",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
