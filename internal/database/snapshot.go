package database

import (
	"context"
	"fmt"

	"rufay/internal/models"
)

// Export reads every collection of the owner in one transaction
func (db *DB) Export(ctx context.Context, ownerID string) (models.Snapshot, error) {
	var snap models.Snapshot
	err := db.View(ctx, ownerID, func(tx *Tx) error {
		var err error
		if snap.Version, err = tx.Version(ctx); err != nil {
			return err
		}
		if snap.Settings, err = tx.GetSettings(ctx); err != nil {
			return err
		}
		if snap.Parties, err = tx.ListParties(ctx); err != nil {
			return err
		}
		if snap.Products, err = tx.ListProducts(ctx); err != nil {
			return err
		}
		if snap.Series, err = tx.ListSeries(ctx); err != nil {
			return err
		}
		if snap.Invoices, err = tx.ListInvoices(ctx); err != nil {
			return err
		}
		if snap.Payments, err = tx.ListPayments(ctx); err != nil {
			return err
		}
		if snap.Expenses, err = tx.ListExpenses(ctx); err != nil {
			return err
		}
		if snap.Bookings, err = tx.ListBookings(ctx); err != nil {
			return err
		}
		if snap.Quotations, err = tx.ListQuotations(ctx); err != nil {
			return err
		}
		if snap.SalesOrders, err = tx.ListSalesOrders(ctx); err != nil {
			return err
		}
		snap.OnlineBookings, err = tx.ListOnlineBookings(ctx)
		return err
	})
	return snap, err
}

// Restore replaces all of the owner's collections with snap if the stored version still equals
// expectedVersion, otherwise it fails with ErrVersionConflict. It returns the new version.
func (db *DB) Restore(ctx context.Context, ownerID string, expectedVersion int64, snap models.Snapshot) (int64, error) {
	var newVersion int64
	err := db.InOwnerTx(ctx, ownerID, func(tx *Tx) error {
		current, err := tx.Version(ctx)
		if err != nil {
			return err
		}
		if current != expectedVersion {
			return fmt.Errorf("expected version %d, found %d: %w", expectedVersion, current, ErrVersionConflict)
		}

		for _, table := range ownerTables {
			if _, err := tx.exec(ctx, `DELETE FROM `+table+` WHERE owner_id = ?`, ownerID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if err := tx.replaceSettings(ctx, snap.Settings); err != nil {
			return err
		}
		for _, p := range snap.Parties {
			if err := tx.InsertParty(ctx, p); err != nil {
				return err
			}
		}
		for _, p := range snap.Products {
			if err := tx.InsertProduct(ctx, p); err != nil {
				return err
			}
		}
		for _, s := range snap.Series {
			if err := tx.InsertSeries(ctx, s); err != nil {
				return err
			}
		}
		for _, inv := range snap.Invoices {
			if err := tx.InsertInvoice(ctx, inv); err != nil {
				return err
			}
		}
		for _, p := range snap.Payments {
			if err := tx.InsertPayment(ctx, p); err != nil {
				return err
			}
		}
		for _, e := range snap.Expenses {
			if err := tx.InsertExpense(ctx, e); err != nil {
				return err
			}
		}
		for _, b := range snap.Bookings {
			if err := tx.InsertBooking(ctx, b); err != nil {
				return err
			}
		}
		for _, q := range snap.Quotations {
			if err := tx.InsertQuotation(ctx, q); err != nil {
				return err
			}
		}
		for _, so := range snap.SalesOrders {
			if err := tx.InsertSalesOrder(ctx, so); err != nil {
				return err
			}
		}
		for _, ob := range snap.OnlineBookings {
			if err := tx.InsertOnlineBooking(ctx, ob); err != nil {
				return err
			}
		}

		newVersion = current + 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}
