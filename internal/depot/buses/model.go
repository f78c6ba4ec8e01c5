package buses

// Bus represents a depot vehicle record.
type Bus struct {
	ID        int64  `json:"id"`
	Plate     string `json:"plate"`
	ModelID   int64  `json:"model_id"`
	StateID   int64  `json:"state_id"`
	ColorID   int64  `json:"color_id"`
	SeatCount int    `json:"seat_count"`
	Year      int    `json:"year"`

	// Denormalized lookup names, populated on reads only.
	ModelName string `json:"model_name,omitempty"`
	StateName string `json:"state_name,omitempty"`
	ColorName string `json:"color_name,omitempty"`
}
