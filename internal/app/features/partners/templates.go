// internal/app/features/partners/templates.go
package partners

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "partners",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
