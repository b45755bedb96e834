package models

// Passenger types
const (
	PassengerAdult  = "Adult"
	PassengerChild  = "Child"
	PassengerInfant = "Infant"
)

// Online booking statuses
const (
	OnlineBookingPending   = "Pending"
	OnlineBookingConfirmed = "Confirmed"
	OnlineBookingCancelled = "Cancelled"
)

// Trip types
const (
	TripOneWay    = "one-way"
	TripRoundTrip = "round-trip"
)

// Series is a purchased lot of seats under one PNR
type Series struct {
	ID                   string  `json:"id" db:"id"`
	PNR                  string  `json:"pnr" db:"pnr"`
	Airline              string  `json:"airline" db:"airline"`
	Route                string  `json:"route" db:"route"`
	DepartureDate        string  `json:"departureDate" db:"departure_date"`
	ArrivalDate          string  `json:"arrivalDate" db:"arrival_date"`
	TotalSeats           int     `json:"totalSeats" db:"total_seats"`
	AvailableSeats       int     `json:"availableSeats" db:"available_seats"`
	PurchasePricePerSeat float64 `json:"purchasePricePerSeat" db:"purchase_price_per_seat"`
}

// SoldSeats returns how many seats bookings currently hold
func (s Series) SoldSeats() int {
	return s.TotalSeats - s.AvailableSeats
}

// Passenger travels on an offline booking
type Passenger struct {
	Name string `json:"name" db:"name"`
	Type string `json:"type" db:"passenger_type"`
}

// Booking is an offline sale of seats from one or two series, paired 1:1 with an invoice
type Booking struct {
	ID                        string      `json:"id" db:"id"`
	BookingNumber             int         `json:"bookingNumber" db:"booking_number"`
	SeriesID                  string      `json:"seriesId" db:"series_id"`
	ReturnSeriesID            *string     `json:"returnSeriesId,omitempty" db:"return_series_id"`
	PartyID                   string      `json:"partyId" db:"party_id"`
	Passengers                []Passenger `json:"passengers" db:"-"`
	SellingPricePerSeat       float64     `json:"sellingPricePerSeat" db:"selling_price_per_seat"`
	ReturnSellingPricePerSeat *float64    `json:"returnSellingPricePerSeat,omitempty" db:"return_selling_price_per_seat"`
	TotalAmount               float64     `json:"totalAmount" db:"total_amount"`
	BookingDate               string      `json:"bookingDate" db:"booking_date"`
	InvoiceID                 string      `json:"invoiceId" db:"invoice_id"`
}

// HasReturn reports whether the booking includes a return leg
func (b Booking) HasReturn() bool {
	return b.ReturnSeriesID != nil && *b.ReturnSeriesID != ""
}

// FlightLeg is one flight segment of an itinerary
type FlightLeg struct {
	Airline         string `json:"airline"`
	FlightNumber    string `json:"flightNumber"`
	From            string `json:"from"`
	To              string `json:"to"`
	DepartureTime   string `json:"departureTime"`
	ArrivalTime     string `json:"arrivalTime"`
	Duration        string `json:"duration"`
	LayoverDuration string `json:"layoverDuration,omitempty"`
}

// FlightItinerary is one search result
type FlightItinerary struct {
	ID            string      `json:"id"`
	TotalPrice    float64     `json:"totalPrice"`
	TotalDuration string      `json:"totalDuration"`
	OutboundLegs  []FlightLeg `json:"outboundLegs"`
	ReturnLegs    []FlightLeg `json:"returnLegs,omitempty"`
}

// PassengerCounts is the party size of a flight search
type PassengerCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// Total returns the number of travellers
func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.Infants
}

// SearchCriteria is the flight search input, also snapshotted onto online bookings
type SearchCriteria struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	DepartureDate string          `json:"departureDate"`
	ReturnDate    string          `json:"returnDate,omitempty"`
	Passengers    PassengerCounts `json:"passengers"`
	TripType      string          `json:"tripType"`
}

// OnlineBookingPassenger is a traveller on an online booking
type OnlineBookingPassenger struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
	Type   string `json:"type"`
}

// OnlineBooking is a booking made from a flight search result
type OnlineBooking struct {
	ID             string                   `json:"id"`
	Itinerary      FlightItinerary          `json:"itinerary"`
	Passengers     []OnlineBookingPassenger `json:"passengers"`
	SearchCriteria SearchCriteria           `json:"searchCriteria"`
	PNR            string                   `json:"pnr,omitempty"`
	BookingDate    string                   `json:"bookingDate"`
	Status         string                   `json:"status"`
}

// OnlineBookingInput represents the online booking hold workflow input
type OnlineBookingInput struct {
	OwnerID   string `json:"ownerId"`
	BookingID string `json:"bookingId"`
	// HoldSeconds is how long the booking may stay Pending before it is cancelled
	HoldSeconds int64 `json:"holdSeconds"`
}

// OnlineBookingState represents the current workflow state
type OnlineBookingState struct {
	OwnerID   string `json:"ownerId"`
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
	PNR       string `json:"pnr,omitempty"`

	// Expired is set when the hold ran out while the booking was still Pending
	Expired       bool  `json:"expired"`
	TimeRemaining int64 `json:"timeRemaining"` // seconds left on the hold
}
