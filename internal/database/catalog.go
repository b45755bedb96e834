package database

import (
	"context"
	"fmt"

	"rufay/internal/models"
)

const (
	partyColumns   = `id, name, phone, email, address, party_type`
	productColumns = `id, name, purchase_price, selling_price, stock, low_stock_threshold`
	expenseColumns = `id, category, amount, expense_date, description`
)

// GetParty loads one party
func (t *Tx) GetParty(ctx context.Context, id string) (models.Party, error) {
	var p models.Party
	err := t.get(ctx, &p, `SELECT `+partyColumns+` FROM parties WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return p, fmt.Errorf("party %s: %w", id, err)
	}
	return p, nil
}

func (t *Tx) ListParties(ctx context.Context) ([]models.Party, error) {
	parties := []models.Party{}
	if err := t.selectAll(ctx, &parties, `SELECT `+partyColumns+` FROM parties WHERE owner_id = ? ORDER BY name, id`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return parties, nil
}

func (t *Tx) InsertParty(ctx context.Context, p models.Party) error {
	_, err := t.exec(ctx, `
		INSERT INTO parties (owner_id, `+partyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, p.ID, p.Name, p.Phone, p.Email, p.Address, p.Type)
	if err != nil {
		return fmt.Errorf("failed to insert party: %w", err)
	}
	return nil
}

func (t *Tx) UpdateParty(ctx context.Context, p models.Party) error {
	_, err := t.exec(ctx, `
		UPDATE parties SET name = ?, phone = ?, email = ?, address = ?, party_type = ?
		WHERE owner_id = ? AND id = ?
	`, p.Name, p.Phone, p.Email, p.Address, p.Type, t.ownerID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update party: %w", err)
	}
	return nil
}

func (t *Tx) DeleteParty(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM parties WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
	}
	return nil
}

// GetProduct loads one product
func (t *Tx) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := t.get(ctx, &p, `SELECT `+productColumns+` FROM products WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return p, fmt.Errorf("product %s: %w", id, err)
	}
	return p, nil
}

func (t *Tx) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := t.selectAll(ctx, &products, `SELECT `+productColumns+` FROM products WHERE owner_id = ? ORDER BY name, id`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (t *Tx) InsertProduct(ctx context.Context, p models.Product) error {
	_, err := t.exec(ctx, `
		INSERT INTO products (owner_id, `+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ownerID, p.ID, p.Name, p.PurchasePrice, p.SellingPrice, p.Stock, p.LowStockThreshold)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (t *Tx) UpdateProduct(ctx context.Context, p models.Product) error {
	_, err := t.exec(ctx, `
		UPDATE products SET name = ?, purchase_price = ?, selling_price = ?, stock = ?, low_stock_threshold = ?
		WHERE owner_id = ? AND id = ?
	`, p.Name, p.PurchasePrice, p.SellingPrice, p.Stock, p.LowStockThreshold, t.ownerID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (t *Tx) DeleteProduct(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM products WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// GetExpense loads one expense
func (t *Tx) GetExpense(ctx context.Context, id string) (models.Expense, error) {
	var e models.Expense
	err := t.get(ctx, &e, `SELECT `+expenseColumns+` FROM expenses WHERE owner_id = ? AND id = ?`, t.ownerID, id)
	if err != nil {
		return e, fmt.Errorf("expense %s: %w", id, err)
	}
	return e, nil
}

func (t *Tx) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := t.selectAll(ctx, &expenses, `SELECT `+expenseColumns+` FROM expenses WHERE owner_id = ? ORDER BY expense_date, id`, t.ownerID); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (t *Tx) InsertExpense(ctx context.Context, e models.Expense) error {
	_, err := t.exec(ctx, `
		INSERT INTO expenses (owner_id, `+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ownerID, e.ID, e.Category, e.Amount, e.Date, e.Description)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (t *Tx) UpdateExpense(ctx context.Context, e models.Expense) error {
	_, err := t.exec(ctx, `
		UPDATE expenses SET category = ?, amount = ?, expense_date = ?, description = ?
		WHERE owner_id = ? AND id = ?
	`, e.Category, e.Amount, e.Date, e.Description, t.ownerID, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

func (t *Tx) DeleteExpense(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM expenses WHERE owner_id = ? AND id = ?`, t.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
