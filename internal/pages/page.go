package pages

import (
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/uptrace/bun"
)

// Page is a versioned content entity bound to a public route and the
// controller that renders it.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`
	versioning.ContentEntity

	Route             string `bun:"route,notnull" json:"route"`
	ControllerName    string `bun:"controller_name,notnull" json:"controller_name"`
	ConfigurationJSON string `bun:"configuration_json" json:"configuration_json,omitempty"`
}

// Clone returns a deep copy of p.
func Clone(p *Page) *Page {
	if p == nil {
		return nil
	}
	c := *p
	c.ContentEntity = p.ContentEntity.Clone()
	return &c
}

// New allocates an empty page. It is the record constructor used by the bun
// repository.
func New() *Page {
	return &Page{}
}
