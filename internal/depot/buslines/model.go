// Package buslines manages the route register (module code "routes").
package buslines

// Route represents a bus route record.
type Route struct {
	ID          int64   `json:"id"`
	Number      string  `json:"number"`
	Name        string  `json:"name"`
	StartStopID int64   `json:"start_stop_id"`
	EndStopID   int64   `json:"end_stop_id"`
	LengthKM    float64 `json:"length_km"`
	Fare        float64 `json:"fare"`

	StartStopName string `json:"start_stop_name,omitempty"`
	EndStopName   string `json:"end_stop_name,omitempty"`
}
