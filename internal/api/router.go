package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

// NewRouter builds the API. CORS wraps the whole router so preflight requests are answered
// even though no route is registered for OPTIONS.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware)

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(JSONMiddleware)

	api.HandleFunc("/auth/signup", h.Signup).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")

	p := api.NewRoute().Subrouter()
	p.Use(AuthMiddleware(h.auth.Tokens()))

	// Account
	p.HandleFunc("/staff", h.ListStaff).Methods("GET")
	p.HandleFunc("/staff", h.AddStaff).Methods("POST")
	p.HandleFunc("/account/password", h.ChangePassword).Methods("PUT")
	p.HandleFunc("/account/email", h.ChangeEmail).Methods("PUT")

	// Settings and data
	p.HandleFunc("/settings", h.GetSettings).Methods("GET")
	p.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")
	p.HandleFunc("/settings/numbers/{docType}", h.NextNumber).Methods("POST")
	p.HandleFunc("/data/export", h.ExportData).Methods("GET")
	p.HandleFunc("/data/restore", h.RestoreData).Methods("POST")

	// Catalogue
	p.HandleFunc("/parties", h.ListParties).Methods("GET")
	p.HandleFunc("/parties", h.CreateParty).Methods("POST")
	p.HandleFunc("/parties/{id}", h.GetParty).Methods("GET")
	p.HandleFunc("/parties/{id}", h.UpdateParty).Methods("PUT")
	p.HandleFunc("/parties/{id}", h.DeleteParty).Methods("DELETE")
	p.HandleFunc("/parties/{id}/statement", h.PartyStatement).Methods("GET")

	p.HandleFunc("/products", h.ListProducts).Methods("GET")
	p.HandleFunc("/products", h.CreateProduct).Methods("POST")
	p.HandleFunc("/products/{id}", h.UpdateProduct).Methods("PUT")
	p.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")

	p.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	p.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	p.HandleFunc("/expenses/{id}", h.UpdateExpense).Methods("PUT")
	p.HandleFunc("/expenses/{id}", h.DeleteExpense).Methods("DELETE")

	p.HandleFunc("/series", h.ListSeries).Methods("GET")
	p.HandleFunc("/series", h.CreateSeries).Methods("POST")
	p.HandleFunc("/series/{id}", h.UpdateSeries).Methods("PUT")
	p.HandleFunc("/series/{id}", h.DeleteSeries).Methods("DELETE")

	// Documents
	p.HandleFunc("/invoices", h.ListInvoices).Methods("GET")
	p.HandleFunc("/invoices", h.CreateInvoice).Methods("POST")
	p.HandleFunc("/invoices/{id}", h.GetInvoice).Methods("GET")
	p.HandleFunc("/invoices/{id}", h.UpdateInvoice).Methods("PUT")
	p.HandleFunc("/invoices/{id}", h.DeleteInvoice).Methods("DELETE")

	p.HandleFunc("/payments", h.ListPayments).Methods("GET")
	p.HandleFunc("/payments", h.AddPayment).Methods("POST")
	p.HandleFunc("/payments/{id}", h.UpdatePayment).Methods("PUT")
	p.HandleFunc("/payments/{id}", h.DeletePayment).Methods("DELETE")

	p.HandleFunc("/quotations", h.ListQuotations).Methods("GET")
	p.HandleFunc("/quotations", h.CreateQuotation).Methods("POST")
	p.HandleFunc("/quotations/{id}", h.GetQuotation).Methods("GET")
	p.HandleFunc("/quotations/{id}", h.DeleteQuotation).Methods("DELETE")
	p.HandleFunc("/quotations/{id}/status", h.UpdateQuotationStatus).Methods("PUT")

	p.HandleFunc("/sales-orders", h.ListSalesOrders).Methods("GET")
	p.HandleFunc("/sales-orders", h.CreateSalesOrder).Methods("POST")
	p.HandleFunc("/sales-orders/{id}", h.GetSalesOrder).Methods("GET")
	p.HandleFunc("/sales-orders/{id}", h.DeleteSalesOrder).Methods("DELETE")
	p.HandleFunc("/sales-orders/{id}/status", h.UpdateSalesOrderStatus).Methods("PUT")

	// Travel
	p.HandleFunc("/bookings", h.ListBookings).Methods("GET")
	p.HandleFunc("/bookings", h.CreateBooking).Methods("POST")
	p.HandleFunc("/bookings/{id}", h.GetBooking).Methods("GET")
	p.HandleFunc("/bookings/{id}", h.DeleteBooking).Methods("DELETE")

	p.HandleFunc("/online-bookings", h.ListOnlineBookings).Methods("GET")
	p.HandleFunc("/online-bookings", h.CreateOnlineBooking).Methods("POST")
	p.HandleFunc("/online-bookings/{id}", h.GetOnlineBooking).Methods("GET")
	p.HandleFunc("/online-bookings/{id}/pnr", h.ConfirmPNR).Methods("POST")
	p.HandleFunc("/online-bookings/{id}/cancel", h.CancelOnlineBooking).Methods("POST")
	p.HandleFunc("/online-bookings/{id}/hold", h.HoldStatus).Methods("GET")

	p.HandleFunc("/flights/search", h.SearchFlights).Methods("POST")

	// Reports
	p.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	p.HandleFunc("/reports/sales", h.SalesReport).Methods("GET")

	return CORSMiddleware(r)
}
