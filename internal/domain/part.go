package domain

// Part is immutable reference data sourced from the catalog. The workflow
// never mutates it.
type Part struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
