// Package catalog holds the bundled weekly workout plan. It is the
// ultimate fallback source: always available, no I/O at load time.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/claude/vyayam/internal/models"
)

//go:embed static.yaml
var staticYAML []byte

var static models.Catalog

func init() {
	if err := yaml.Unmarshal(staticYAML, &static); err != nil {
		panic(fmt.Sprintf("catalog: parsing embedded static.yaml: %v", err))
	}
	if err := static.Validate(); err != nil {
		panic(fmt.Sprintf("catalog: invalid embedded catalog: %v", err))
	}
}

// Static returns a copy of the bundled catalog. Callers may mutate the
// result freely.
func Static() models.Catalog {
	return static.Clone()
}
