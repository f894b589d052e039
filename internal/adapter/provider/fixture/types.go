package fixture

// fixtureFile is the root of the fixture JSON file.
type fixtureFile struct {
	Routes []fixtureRoute `json:"routes"`
}

// fixtureRoute describes one directed leg and its base fare.
type fixtureRoute struct {
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	Carrier         string  `json:"carrier"`
	FlightNumber    string  `json:"flight_number"`
	DepartureTime   string  `json:"departure_time"` // "HH:MM", airport local
	DurationMinutes int     `json:"duration_minutes"`
	Stops           int     `json:"stops"`
	BasePrice       float64 `json:"base_price"`
	Seats           int     `json:"seats"`
}
