package nearby

import (
	"github.com/reillypo/nps-explorer/internal/model"
)

const (
	searchRadius = "10"
	maxMatches   = 10
	ambiguities  = "ignore"
	outFormat    = "json"
)

// Place sentinels for empty or missing record fields.
const (
	noName     = "no name"
	noCategory = "no category"
	noAddress  = "no address"
	noCity     = "no city"
)

// Result is one resolved radius search. Response is the full decoded
// API response as cached; Places holds at most ten parsed records.
type Result struct {
	Response     map[string]any
	ResultsCount int
	Places       []model.NearbyPlace
}
