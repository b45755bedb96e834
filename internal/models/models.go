package models

// Party types
const (
	PartyCustomer = "Customer"
	PartySupplier = "Supplier"
)

// Invoice payment statuses
const (
	PaymentPaid    = "Paid"
	PaymentUnpaid  = "Unpaid"
	PaymentPartial = "Partial"
)

// Payment directions
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Payment types
const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
	PaymentBank = "Bank Transfer"
	PaymentUPI  = "UPI"
)

// Quotation statuses
const (
	QuotationDraft    = "Draft"
	QuotationSent     = "Sent"
	QuotationAccepted = "Accepted"
	QuotationRejected = "Rejected"
)

// Sales order statuses
const (
	SalesOrderPending   = "Pending"
	SalesOrderConfirmed = "Confirmed"
	SalesOrderCompleted = "Completed"
	SalesOrderCancelled = "Cancelled"
)

// Line item owners
const (
	DocInvoice    = "invoice"
	DocQuotation  = "quotation"
	DocSalesOrder = "sales_order"
	DocBooking    = "booking"
)

// Party is a customer or supplier
type Party struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Phone   string `json:"phone" db:"phone"`
	Email   string `json:"email,omitempty" db:"email"`
	Address string `json:"address" db:"address"`
	Type    string `json:"type" db:"party_type"`
}

// Product is a stock item
type Product struct {
	ID                string  `json:"id" db:"id"`
	Name              string  `json:"name" db:"name"`
	PurchasePrice     float64 `json:"purchasePrice" db:"purchase_price"`
	SellingPrice      float64 `json:"sellingPrice" db:"selling_price"`
	Stock             int     `json:"stock" db:"stock"`
	LowStockThreshold int     `json:"lowStockThreshold" db:"low_stock_threshold"`
}

// LineItem is one row of an invoice, quotation or sales order.
// Discount is a percentage.
type LineItem struct {
	ProductID   string  `json:"productId" db:"product_id"`
	ProductName string  `json:"productName" db:"product_name"`
	Rate        float64 `json:"rate" db:"rate"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	Discount    float64 `json:"discount" db:"discount"`
}

// Invoice represents a sales invoice
type Invoice struct {
	ID            string     `json:"id" db:"id"`
	InvoiceNumber int        `json:"invoiceNumber" db:"invoice_number"`
	PartyID       string     `json:"partyId" db:"party_id"`
	Date          string     `json:"date" db:"invoice_date"`
	Items         []LineItem `json:"items" db:"-"`
	Tax           float64    `json:"tax" db:"tax"`
	Total         float64    `json:"total" db:"total"`
	AmountPaid    float64    `json:"amountPaid" db:"amount_paid"`
	Status        string     `json:"status" db:"status"`
	SalesOrderID  *string    `json:"salesOrderId,omitempty" db:"sales_order_id"`
}

// Payment represents a cash movement, optionally linked to one invoice
type Payment struct {
	ID        string  `json:"id" db:"id"`
	PartyID   string  `json:"partyId" db:"party_id"`
	InvoiceID *string `json:"invoiceId,omitempty" db:"invoice_id"`
	Amount    float64 `json:"amount" db:"amount"`
	Date      string  `json:"date" db:"payment_date"`
	Type      string  `json:"type" db:"payment_type"`
	Direction string  `json:"direction" db:"direction"`
	Notes     string  `json:"notes,omitempty" db:"notes"`
}

// Expense is a business expense not tied to any party
type Expense struct {
	ID          string  `json:"id" db:"id"`
	Category    string  `json:"category" db:"category"`
	Amount      float64 `json:"amount" db:"amount"`
	Date        string  `json:"date" db:"expense_date"`
	Description string  `json:"description" db:"description"`
}

// Quotation is a priced offer to a party
type Quotation struct {
	ID              string     `json:"id" db:"id"`
	QuotationNumber int        `json:"quotationNumber" db:"quotation_number"`
	PartyID         string     `json:"partyId" db:"party_id"`
	Date            string     `json:"date" db:"quotation_date"`
	Items           []LineItem `json:"items" db:"-"`
	Tax             float64    `json:"tax" db:"tax"`
	Total           float64    `json:"total" db:"total"`
	Status          string     `json:"status" db:"status"`
	ValidUntil      string     `json:"validUntil" db:"valid_until"`
}

// SalesOrder is a confirmed order, optionally converted from a quotation
type SalesOrder struct {
	ID               string     `json:"id" db:"id"`
	SalesOrderNumber int        `json:"salesOrderNumber" db:"sales_order_number"`
	PartyID          string     `json:"partyId" db:"party_id"`
	Date             string     `json:"date" db:"order_date"`
	Items            []LineItem `json:"items" db:"-"`
	Tax              float64    `json:"tax" db:"tax"`
	Total            float64    `json:"total" db:"total"`
	Status           string     `json:"status" db:"status"`
	QuotationID      *string    `json:"quotationId,omitempty" db:"quotation_id"`
}

// Settings holds per-owner business details, document counters and prefixes
type Settings struct {
	BusinessName      string `json:"businessName" db:"business_name"`
	Address           string `json:"address" db:"address"`
	Email             string `json:"email" db:"email"`
	Phone             string `json:"phone" db:"phone"`
	GSTNumber         string `json:"gstNumber" db:"gst_number"`
	BankName          string `json:"bankName" db:"bank_name"`
	AccountNumber     string `json:"accountNumber" db:"account_number"`
	IFSCCode          string `json:"ifscCode" db:"ifsc_code"`
	UPIID             string `json:"upiId" db:"upi_id"`
	Currency          string `json:"currency" db:"currency"`
	InvoiceCounter    int    `json:"invoiceCounter" db:"invoice_counter"`
	InvoicePrefix     string `json:"invoicePrefix" db:"invoice_prefix"`
	BookingCounter    int    `json:"bookingCounter" db:"booking_counter"`
	BookingPrefix     string `json:"bookingPrefix" db:"booking_prefix"`
	QuotationCounter  int    `json:"quotationCounter" db:"quotation_counter"`
	QuotationPrefix   string `json:"quotationPrefix" db:"quotation_prefix"`
	SalesOrderCounter int    `json:"salesOrderCounter" db:"sales_order_counter"`
	SalesOrderPrefix  string `json:"salesOrderPrefix" db:"sales_order_prefix"`
	InvoiceTemplate   string `json:"invoiceTemplate" db:"invoice_template"`
	TicketTemplate    string `json:"ticketTemplate" db:"ticket_template"`
}

// DefaultSettings returns the settings a new owner starts with
func DefaultSettings(email string) Settings {
	return Settings{
		BusinessName:      "RUFAY Travels",
		Address:           "123 Business St",
		Email:             email,
		Phone:             "123-456-7890",
		Currency:          "₹",
		InvoiceCounter:    1,
		InvoicePrefix:     "INV-",
		BookingCounter:    1,
		BookingPrefix:     "BKG-",
		QuotationCounter:  1,
		QuotationPrefix:   "Q-",
		SalesOrderCounter: 1,
		SalesOrderPrefix:  "SO-",
		InvoiceTemplate:   "classic",
		TicketTemplate:    "classic",
	}
}

// User roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is an account; staff users share the data of their admin (OwnerID)
type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	OwnerID      string `json:"adminId" db:"owner_id"`
}
