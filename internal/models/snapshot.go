package models

// Snapshot is the full data of one owner at a given version
type Snapshot struct {
	Version        int64           `json:"version"`
	Settings       Settings        `json:"settings"`
	Parties        []Party         `json:"parties"`
	Products       []Product       `json:"products"`
	Series         []Series        `json:"series"`
	Invoices       []Invoice       `json:"invoices"`
	Payments       []Payment       `json:"payments"`
	Expenses       []Expense       `json:"expenses"`
	Bookings       []Booking       `json:"bookings"`
	Quotations     []Quotation     `json:"quotations"`
	SalesOrders    []SalesOrder    `json:"salesOrders"`
	OnlineBookings []OnlineBooking `json:"onlineBookings"`
}
