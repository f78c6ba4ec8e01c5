package trips

import "time"

// Trip represents one scheduled run of a bus on a route.
type Trip struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	RouteID     int64     `json:"route_id"`
	BusID       int64     `json:"bus_id"`
	DriverID    int64     `json:"driver_id"`
	ConductorID *int64    `json:"conductor_id,omitempty"`
	ShiftTypeID int64     `json:"shift_type_id"`
	DepartureAt time.Time `json:"departure_at"`
	ReturnAt    time.Time `json:"return_at"`
	Revenue     float64   `json:"revenue"`

	RouteNumber string `json:"route_number,omitempty"`
	BusPlate    string `json:"bus_plate,omitempty"`
	DriverName  string `json:"driver_name,omitempty"`
}
