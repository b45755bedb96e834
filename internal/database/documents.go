package database

import (
	"context"
	"fmt"

	"rufay/internal/models"
)

const (
	invoiceColumns    = `id, invoice_number, party_id, invoice_date, tax, total, amount_paid, status, sales_order_id`
	quotationColumns  = `id, quotation_number, party_id, quotation_date, tax, total, status, valid_until`
	salesOrderColumns = `id, sales_order_number, party_id, order_date, tax, total, status, quotation_id`
	lineItemColumns   = `product_id, product_name, rate, quantity, discount`
)

type lineItemRow struct {
	DocID string `db:"doc_id"`
	models.LineItem
}

func (t *Tx) loadItems(ctx context.Context, docType, docID string) ([]models.LineItem, error) {
	items := []models.LineItem{}
	err := t.selectAll(ctx, &items, `
		SELECT `+lineItemColumns+` FROM line_items
		WHERE owner_id = ? AND doc_type = ? AND doc_id = ?
		ORDER BY line_no
	`, t.ownerID, docType, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s items: %w", docType, err)
	}
	return items, nil
}

// loadAllItems groups every line item of docType by document id
func (t *Tx) loadAllItems(ctx context.Context, docType string) (map[string][]models.LineItem, error) {
	var rows []lineItemRow
	err := t.selectAll(ctx, &rows, `
		SELECT doc_id, `+lineItemColumns+` FROM line_items
		WHERE owner_id = ? AND doc_type = ?
		ORDER BY doc_id, line_no
	`, t.ownerID, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s items: %w", docType, err)
	}

	byDoc := make(map[string][]models.LineItem)
	for _, row := range rows {
		byDoc[row.DocID] = append(byDoc[row.DocID], row.LineItem)
	}
	return byDoc, nil
}

func (t *Tx) insertItems(ctx context.Context, docType, docID string, items []models.LineItem) error {
	for i, item := range items {
		_, err := t.exec(ctx, `
			INSERT INTO line_items (owner_id, doc_type, doc_id, line_no, `+lineItemColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ownerID, docType, docID, i, item.ProductID, item.ProductName, item.Rate, item.Quantity, item.Discount)
		if err != nil {
			return fmt.Errorf("failed to insert %s item: %w", docType, err)
		}
	}
	return nil
}

func (t *Tx) deleteItems(ctx context.Context, docType, docID string) error {
	_, err := t.exec(ctx, `DELETE FROM line_items WHERE owner_id = ? AND doc_type = ? AND doc_id = ?`, t.ownerID, docType, docID)
	if err != nil {
		return fmt.Errorf("failed to delete %s items: %w", docType, err)
	}
	return nil
}

// GetInvoice loads one invoice with its line items
func (t *Tx) GetInvoice(ctx context.Context, id string) (models.Invoice, error) {
	var inv models.Invoice
	err := t.get(ctx, &inv, `SELECT `+invoiceColumns+` FROM invoices WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return inv, fmt.Errorf("invoice %s: %w", id, err)
	}
	if inv.Items, err = t.loadItems(ctx, models.DocInvoice, id); err != nil {
		return inv, err
	}
	return inv, nil
}

// ListInvoices returns all invoices ordered by number
func (t *Tx) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	if err := t.selectAll(ctx, &invoices, `SELECT `+invoiceColumns+` FROM invoices WHERE owner_id = ? ORDER BY invoice_number`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	items, err := t.loadAllItems(ctx, models.DocInvoice)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Items = itemsOrEmpty(items[invoices[i].ID])
	}
	return invoices, nil
}

func (t *Tx) InsertInvoice(ctx context.Context, inv models.Invoice) error {
	_, err := t.exec(ctx, `
		INSERT INTO invoices (owner_id, `+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, inv.ID, inv.InvoiceNumber, inv.PartyID, inv.Date, inv.Tax, inv.Total, inv.AmountPaid, inv.Status, inv.SalesOrderID)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return t.insertItems(ctx, models.DocInvoice, inv.ID, inv.Items)
}

// UpdateInvoice rewrites the invoice header and replaces its line items. The number is kept.
func (t *Tx) UpdateInvoice(ctx context.Context, inv models.Invoice) error {
	_, err := t.exec(ctx, `
		UPDATE invoices
		SET party_id = ?, invoice_date = ?, tax = ?, total = ?, amount_paid = ?, status = ?
		WHERE owner_id = ? AND id = ?
	`, inv.PartyID, inv.Date, inv.Tax, inv.Total, inv.AmountPaid, inv.Status, t.ownerID, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if err := t.deleteItems(ctx, models.DocInvoice, inv.ID); err != nil {
		return err
	}
	return t.insertItems(ctx, models.DocInvoice, inv.ID, inv.Items)
}

// SetInvoicePaid stores the paid amount and derived status of an invoice
func (t *Tx) SetInvoicePaid(ctx context.Context, id string, amountPaid float64, status string) error {
	_, err := t.exec(ctx, `UPDATE invoices SET amount_paid = ?, status = ? WHERE owner_id = ? AND id = ?`,
		amountPaid, status, t.ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to update invoice payment: %w", err)
	}
	return nil
}

func (t *Tx) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM invoices WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return t.deleteItems(ctx, models.DocInvoice, id)
}

// GetQuotation loads one quotation with its line items
func (t *Tx) GetQuotation(ctx context.Context, id string) (models.Quotation, error) {
	var q models.Quotation
	err := t.get(ctx, &q, `SELECT `+quotationColumns+` FROM quotations WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return q, fmt.Errorf("quotation %s: %w", id, err)
	}
	if q.Items, err = t.loadItems(ctx, models.DocQuotation, id); err != nil {
		return q, err
	}
	return q, nil
}

func (t *Tx) ListQuotations(ctx context.Context) ([]models.Quotation, error) {
	quotations := []models.Quotation{}
	if err := t.selectAll(ctx, &quotations, `SELECT `+quotationColumns+` FROM quotations WHERE owner_id = ? ORDER BY quotation_number`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	items, err := t.loadAllItems(ctx, models.DocQuotation)
	if err != nil {
		return nil, err
	}
	for i := range quotations {
		quotations[i].Items = itemsOrEmpty(items[quotations[i].ID])
	}
	return quotations, nil
}

func (t *Tx) InsertQuotation(ctx context.Context, q models.Quotation) error {
	_, err := t.exec(ctx, `
		INSERT INTO quotations (owner_id, `+quotationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, q.ID, q.QuotationNumber, q.PartyID, q.Date, q.Tax, q.Total, q.Status, q.ValidUntil)
	if err != nil {
		return fmt.Errorf("failed to insert quotation: %w", err)
	}
	return t.insertItems(ctx, models.DocQuotation, q.ID, q.Items)
}

func (t *Tx) SetQuotationStatus(ctx context.Context, id, status string) error {
	_, err := t.exec(ctx, `UPDATE quotations SET status = ? WHERE owner_id = ? AND id = ?`, status, t.ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to update quotation status: %w", err)
	}
	return nil
}

func (t *Tx) DeleteQuotation(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM quotations WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	return t.deleteItems(ctx, models.DocQuotation, id)
}

// GetSalesOrder loads one sales order with its line items
func (t *Tx) GetSalesOrder(ctx context.Context, id string) (models.SalesOrder, error) {
	var so models.SalesOrder
	err := t.get(ctx, &so, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return so, fmt.Errorf("sales order %s: %w", id, err)
	}
	if so.Items, err = t.loadItems(ctx, models.DocSalesOrder, id); err != nil {
		return so, err
	}
	return so, nil
}

func (t *Tx) ListSalesOrders(ctx context.Context) ([]models.SalesOrder, error) {
	orders := []models.SalesOrder{}
	if err := t.selectAll(ctx, &orders, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE owner_id = ? ORDER BY sales_order_number`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list sales orders: %w", err)
	}

	items, err := t.loadAllItems(ctx, models.DocSalesOrder)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsOrEmpty(items[orders[i].ID])
	}
	return orders, nil
}

func (t *Tx) InsertSalesOrder(ctx context.Context, so models.SalesOrder) error {
	_, err := t.exec(ctx, `
		INSERT INTO sales_orders (owner_id, `+salesOrderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, so.ID, so.SalesOrderNumber, so.PartyID, so.Date, so.Tax, so.Total, so.Status, so.QuotationID)
	if err != nil {
		return fmt.Errorf("failed to insert sales order: %w", err)
	}
	return t.insertItems(ctx, models.DocSalesOrder, so.ID, so.Items)
}

func (t *Tx) SetSalesOrderStatus(ctx context.Context, id, status string) error {
	_, err := t.exec(ctx, `UPDATE sales_orders SET status = ? WHERE owner_id = ? AND id = ?`, status, t.ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to update sales order status: %w", err)
	}
	return nil
}

func (t *Tx) DeleteSalesOrder(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM sales_orders WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete sales order: %w", err)
	}
	return t.deleteItems(ctx, models.DocSalesOrder, id)
}

func itemsOrEmpty(items []models.LineItem) []models.LineItem {
	if items == nil {
		return []models.LineItem{}
	}
	return items
}
