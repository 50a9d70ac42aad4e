package ingredients

import "github.com/JaimeStill/recipe-lab/pkg/query"

var projection = query.
	NewProjectionMap("ingredients").
	Project("name", "Name").
	Project("diet_type", "Diet")

var defaultSort = query.SortField{Field: "Name"}
