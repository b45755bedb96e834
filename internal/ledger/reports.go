package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rufay/internal/database"
	"rufay/internal/models"
)

// Dashboard aggregates sales, dues, stock value and profit. Cost of goods is taken from the
// current purchase price of products sold on invoice lines.
func (s *Service) Dashboard(ctx context.Context, ownerID string) (models.DashboardStats, error) {
	stats := models.DashboardStats{LowStock: []models.Product{}, UnpaidInvoices: []models.Invoice{}}

	err := s.read(ctx, ownerID, "Dashboard", func(tx *database.Tx) error {
		invoices, err := tx.ListInvoices(ctx)
		if err != nil {
			return err
		}
		products, err := tx.ListProducts(ctx)
		if err != nil {
			return err
		}
		expenses, err := tx.ListExpenses(ctx)
		if err != nil {
			return err
		}
		series, err := tx.ListSeries(ctx)
		if err != nil {
			return err
		}
		online, err := tx.ListOnlineBookings(ctx)
		if err != nil {
			return err
		}

		purchase := make(map[string]decimal.Decimal, len(products))
		stockValue := decimal.Zero
		for _, p := range products {
			cost := decimal.NewFromFloat(p.PurchasePrice)
			purchase[p.ID] = cost
			stockValue = stockValue.Add(cost.Mul(decimal.NewFromInt(int64(p.Stock))))
			if p.Stock <= p.LowStockThreshold {
				stats.LowStock = append(stats.LowStock, p)
			}
		}

		sales, paid, cogs := decimal.Zero, decimal.Zero, decimal.Zero
		for _, inv := range invoices {
			sales = sales.Add(decimal.NewFromFloat(inv.Total))
			paid = paid.Add(decimal.NewFromFloat(inv.AmountPaid))
			if inv.Status != models.PaymentPaid {
				stats.UnpaidInvoices = append(stats.UnpaidInvoices, inv)
			}
			for _, item := range inv.Items {
				if cost, ok := purchase[item.ProductID]; ok {
					cogs = cogs.Add(cost.Mul(decimal.NewFromFloat(item.Quantity)))
				}
			}
		}

		spent := decimal.Zero
		for _, e := range expenses {
			spent = spent.Add(decimal.NewFromFloat(e.Amount))
		}

		for _, sr := range series {
			stats.SeatsAvailable += sr.AvailableSeats
		}
		for _, ob := range online {
			if ob.Status == models.OnlineBookingPending {
				stats.PendingBookings++
			}
		}

		stats.TotalSales = sales.InexactFloat64()
		stats.TotalDues = sales.Sub(paid).InexactFloat64()
		stats.StockValue = stockValue.InexactFloat64()
		stats.TotalExpenses = spent.InexactFloat64()
		stats.Profit = sales.Sub(cogs).Sub(spent).InexactFloat64()
		return nil
	})
	return stats, err
}

// SalesReport totals invoices dated on day and in day's month. day is YYYY-MM-DD.
func (s *Service) SalesReport(ctx context.Context, ownerID, day string) (models.SalesReport, error) {
	if day == "" {
		day = s.today()
	}
	if _, err := time.Parse(dateLayout, day); err != nil {
		return models.SalesReport{}, invalid("date", "must be YYYY-MM-DD")
	}
	report := models.SalesReport{Date: day, Month: day[:7]}

	err := s.read(ctx, ownerID, "SalesReport", func(tx *database.Tx) error {
		invoices, err := tx.ListInvoices(ctx)
		if err != nil {
			return err
		}

		daily, monthly := decimal.Zero, decimal.Zero
		for _, inv := range invoices {
			total := decimal.NewFromFloat(inv.Total)
			if strings.HasPrefix(inv.Date, report.Date) {
				daily = daily.Add(total)
				report.DailyCount++
			}
			if strings.HasPrefix(inv.Date, report.Month) {
				monthly = monthly.Add(total)
				report.MonthlyCount++
			}
		}
		report.DailyTotal = daily.InexactFloat64()
		report.MonthlyTotal = monthly.InexactFloat64()
		return nil
	})
	return report, err
}

// PartyStatement collects a party's invoices, payments and bookings with the balance still due
func (s *Service) PartyStatement(ctx context.Context, ownerID, partyID string) (models.PartyStatement, error) {
	st := models.PartyStatement{Invoices: []models.Invoice{}, Payments: []models.Payment{}, Bookings: []models.Booking{}}

	err := s.read(ctx, ownerID, "PartyStatement", func(tx *database.Tx) error {
		var err error
		if st.Party, err = tx.GetParty(ctx, partyID); err != nil {
			return err
		}

		invoices, err := tx.ListInvoices(ctx)
		if err != nil {
			return err
		}
		payments, err := tx.ListPayments(ctx)
		if err != nil {
			return err
		}
		bookings, err := tx.ListBookings(ctx)
		if err != nil {
			return err
		}

		billed, paid := decimal.Zero, decimal.Zero
		for _, inv := range invoices {
			if inv.PartyID == partyID {
				st.Invoices = append(st.Invoices, inv)
				billed = billed.Add(decimal.NewFromFloat(inv.Total))
				paid = paid.Add(decimal.NewFromFloat(inv.AmountPaid))
			}
		}
		for _, p := range payments {
			if p.PartyID == partyID {
				st.Payments = append(st.Payments, p)
			}
		}
		for _, b := range bookings {
			if b.PartyID == partyID {
				st.Bookings = append(st.Bookings, b)
			}
		}

		st.TotalBilled = billed.InexactFloat64()
		st.TotalPaid = paid.InexactFloat64()
		st.BalanceDue = billed.Sub(paid).InexactFloat64()
		return nil
	})
	return st, err
}
