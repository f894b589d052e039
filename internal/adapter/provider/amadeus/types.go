package amadeus

// tokenResponse is the OAuth2 client-credentials answer.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// searchRequest is the body of POST /v2/shopping/flight-offers.
type searchRequest struct {
	CurrencyCode       string              `json:"currencyCode"`
	OriginDestinations []originDestination `json:"originDestinations"`
	Travelers          []traveler          `json:"travelers"`
	Sources            []string            `json:"sources"`
	SearchCriteria     searchCriteria      `json:"searchCriteria"`
}

type originDestination struct {
	ID                      string        `json:"id"`
	OriginLocationCode      string        `json:"originLocationCode"`
	DestinationLocationCode string        `json:"destinationLocationCode"`
	DepartureDateTimeRange  dateTimeRange `json:"departureDateTimeRange"`
}

type dateTimeRange struct {
	Date string `json:"date"`
}

type traveler struct {
	ID           string `json:"id"`
	TravelerType string `json:"travelerType"`
}

type searchCriteria struct {
	MaxFlightOffers int `json:"maxFlightOffers"`
}

// searchResponse is the answer of the flight-offers endpoint.
type searchResponse struct {
	Data []apiOffer `json:"data"`
}

type apiOffer struct {
	ID                    string         `json:"id"`
	NumberOfBookableSeats int            `json:"numberOfBookableSeats"`
	Itineraries           []apiItinerary `json:"itineraries"`
	Price                 apiPrice       `json:"price"`
}

type apiItinerary struct {
	Duration string       `json:"duration"` // ISO 8601, e.g. "PT2H50M"
	Segments []apiSegment `json:"segments"`
}

type apiSegment struct {
	Departure     apiEndpoint `json:"departure"`
	Arrival       apiEndpoint `json:"arrival"`
	CarrierCode   string      `json:"carrierCode"`
	Number        string      `json:"number"`
	NumberOfStops int         `json:"numberOfStops"`
}

type apiEndpoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"` // airport local, no offset
}

type apiPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

// errorResponse is the error envelope of the API.
type errorResponse struct {
	Errors []apiErrorItem `json:"errors"`
}

type apiErrorItem struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
