package types

// SearchStatus tags the outcome of a restaurant search.
type SearchStatus string

const (
	SearchFound    SearchStatus = "found"
	SearchNotFound SearchStatus = "not_found"
	SearchError    SearchStatus = "error"
)

// NotFoundMarker is what the model sees when a search returned no places.
const NotFoundMarker = "NOT_FOUND"

// Place is one normalised search hit.
type Place struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// SearchOutcome is the result of one search tool call. Places is set only when
// Status is SearchFound and Err only when Status is SearchError.
type SearchOutcome struct {
	Status SearchStatus
	Places []Place
	Err    string
}

// ToolResponse renders the outcome as the function response handed back to the model.
func (o SearchOutcome) ToolResponse() map[string]any {
	switch o.Status {
	case SearchFound:
		return map[string]any{"results": o.Places}
	case SearchNotFound:
		return map[string]any{"info": NotFoundMarker}
	default:
		return map[string]any{"error": o.Err}
	}
}
