package ingredients

import (
	"net/url"

	"github.com/JaimeStill/recipe-lab/pkg/query"
)

// Filters contains optional filtering criteria for ingredient queries.
type Filters struct {
	Diet *string
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var diet *string
	if d := values.Get("diet"); d != "" {
		diet = &d
	}

	return Filters{Diet: diet}
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Diet", f.Diet)
}
