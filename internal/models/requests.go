package models

// CreateBookingRequest is the input of an offline booking
type CreateBookingRequest struct {
	SeriesID                  string      `json:"seriesId"`
	ReturnSeriesID            string      `json:"returnSeriesId,omitempty"`
	PartyID                   string      `json:"partyId"`
	Passengers                []Passenger `json:"passengers"`
	SellingPricePerSeat       float64     `json:"sellingPricePerSeat"`
	ReturnSellingPricePerSeat float64     `json:"returnSellingPricePerSeat,omitempty"`
	BookingDate               string      `json:"bookingDate,omitempty"`
}

// BookingResult is everything a booking create touched
type BookingResult struct {
	Booking Booking  `json:"booking"`
	Invoice Invoice  `json:"invoice"`
	Series  []Series `json:"series"`
}

// CreateInvoiceRequest is a new invoice with an optional payment taken at invoicing time
type CreateInvoiceRequest struct {
	Invoice
	Payment *InvoicePayment `json:"payment,omitempty"`
}

// InvoicePayment is money received while the invoice is written. A zero amount records nothing.
type InvoicePayment struct {
	Amount float64 `json:"amount"`
	Type   string  `json:"type,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// CreateOnlineBookingRequest books a flight search result
type CreateOnlineBookingRequest struct {
	Itinerary      FlightItinerary          `json:"itinerary"`
	Passengers     []OnlineBookingPassenger `json:"passengers"`
	SearchCriteria SearchCriteria           `json:"searchCriteria"`
}

// ConfirmPNRRequest supplies the airline PNR of an online booking
type ConfirmPNRRequest struct {
	PNR string `json:"pnr"`
}

// StatusRequest changes a document status
type StatusRequest struct {
	Status string `json:"status"`
}

// RestoreRequest replaces an owner's data if ExpectedVersion is still current
type RestoreRequest struct {
	ExpectedVersion int64    `json:"expectedVersion"`
	Snapshot        Snapshot `json:"snapshot"`
}

// SignupRequest registers a new admin account
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest exchanges credentials for a token
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on signup and login
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// StaffRequest creates a staff account under the caller's admin
type StaffRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangeEmailRequest replaces the caller's login email
type ChangeEmailRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewEmail        string `json:"newEmail"`
}

// DashboardStats summarises the business
type DashboardStats struct {
	TotalSales      float64   `json:"totalSales"`
	TotalDues       float64   `json:"totalDues"`
	StockValue      float64   `json:"stockValue"`
	TotalExpenses   float64   `json:"totalExpenses"`
	Profit          float64   `json:"profit"`
	LowStock        []Product `json:"lowStock"`
	UnpaidInvoices  []Invoice `json:"unpaidInvoices"`
	SeatsAvailable  int       `json:"seatsAvailable"`
	PendingBookings int       `json:"pendingOnlineBookings"`
}

// SalesReport totals invoices for one day and its month
type SalesReport struct {
	Date         string  `json:"date"`
	DailyTotal   float64 `json:"dailyTotal"`
	DailyCount   int     `json:"dailyCount"`
	Month        string  `json:"month"`
	MonthlyTotal float64 `json:"monthlyTotal"`
	MonthlyCount int     `json:"monthlyCount"`
}

// PartyStatement lists a party's documents and what they still owe
type PartyStatement struct {
	Party       Party     `json:"party"`
	Invoices    []Invoice `json:"invoices"`
	Payments    []Payment `json:"payments"`
	Bookings    []Booking `json:"bookings"`
	TotalBilled float64   `json:"totalBilled"`
	TotalPaid   float64   `json:"totalPaid"`
	BalanceDue  float64   `json:"balanceDue"`
}
