package ledger

import (
	"context"
	"errors"
	"strings"

	"rufay/internal/database"
	"rufay/internal/models"
)

func validateParty(p models.Party) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "is required")
	}
	if p.Type != models.PartyCustomer && p.Type != models.PartySupplier {
		return invalid("type", "must be %s or %s", models.PartyCustomer, models.PartySupplier)
	}
	return nil
}

func (s *Service) ListParties(ctx context.Context, ownerID string) ([]models.Party, error) {
	var parties []models.Party
	err := s.read(ctx, ownerID, "ListParties", func(tx *database.Tx) error {
		var err error
		parties, err = tx.ListParties(ctx)
		return err
	})
	return parties, err
}

func (s *Service) GetParty(ctx context.Context, ownerID, id string) (models.Party, error) {
	var party models.Party
	err := s.read(ctx, ownerID, "GetParty", func(tx *database.Tx) error {
		var err error
		party, err = tx.GetParty(ctx, id)
		return err
	})
	return party, err
}

func (s *Service) CreateParty(ctx context.Context, ownerID string, p models.Party) (models.Party, error) {
	if err := validateParty(p); err != nil {
		return p, err
	}
	p.ID = s.newID()
	err := s.write(ctx, ownerID, "CreateParty", func(tx *database.Tx) error {
		return tx.InsertParty(ctx, p)
	})
	return p, err
}

func (s *Service) UpdateParty(ctx context.Context, ownerID string, p models.Party) (models.Party, error) {
	if err := validateParty(p); err != nil {
		return p, err
	}
	err := s.write(ctx, ownerID, "UpdateParty", func(tx *database.Tx) error {
		if _, err := tx.GetParty(ctx, p.ID); err != nil {
			return err
		}
		return tx.UpdateParty(ctx, p)
	})
	return p, err
}

// DeleteParty fails with a DependencyError while any document or payment references the party
func (s *Service) DeleteParty(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteParty", func(tx *database.Tx) error {
		if _, err := tx.GetParty(ctx, id); errors.Is(err, database.ErrNotFound) {
			return nil
		} else if err != nil {
			return err
		}

		ref, err := tx.PartyReference(ctx, id)
		if err != nil {
			return err
		}
		if ref != nil {
			return blocked(ctx, tx, "party", id, ref)
		}
		return tx.DeleteParty(ctx, id)
	})
}

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "is required")
	}
	if p.PurchasePrice < 0 || p.SellingPrice < 0 {
		return invalid("price", "must not be negative")
	}
	if p.Stock < 0 {
		return invalid("stock", "must not be negative")
	}
	if p.LowStockThreshold < 0 {
		return invalid("lowStockThreshold", "must not be negative")
	}
	return nil
}

func (s *Service) ListProducts(ctx context.Context, ownerID string) ([]models.Product, error) {
	var products []models.Product
	err := s.read(ctx, ownerID, "ListProducts", func(tx *database.Tx) error {
		var err error
		products, err = tx.ListProducts(ctx)
		return err
	})
	return products, err
}

func (s *Service) CreateProduct(ctx context.Context, ownerID string, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return p, err
	}
	p.ID = s.newID()
	err := s.write(ctx, ownerID, "CreateProduct", func(tx *database.Tx) error {
		return tx.InsertProduct(ctx, p)
	})
	return p, err
}

func (s *Service) UpdateProduct(ctx context.Context, ownerID string, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return p, err
	}
	err := s.write(ctx, ownerID, "UpdateProduct", func(tx *database.Tx) error {
		if _, err := tx.GetProduct(ctx, p.ID); err != nil {
			return err
		}
		return tx.UpdateProduct(ctx, p)
	})
	return p, err
}

// DeleteProduct fails while any invoice, quotation or sales order has a line for the product
func (s *Service) DeleteProduct(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteProduct", func(tx *database.Tx) error {
		ref, err := tx.ProductReference(ctx, id)
		if err != nil {
			return err
		}
		if ref != nil {
			return blocked(ctx, tx, "product", id, ref)
		}
		return tx.DeleteProduct(ctx, id)
	})
}

func validateExpense(e models.Expense) error {
	if strings.TrimSpace(e.Category) == "" {
		return invalid("category", "is required")
	}
	if e.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	return nil
}

func (s *Service) ListExpenses(ctx context.Context, ownerID string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.read(ctx, ownerID, "ListExpenses", func(tx *database.Tx) error {
		var err error
		expenses, err = tx.ListExpenses(ctx)
		return err
	})
	return expenses, err
}

func (s *Service) CreateExpense(ctx context.Context, ownerID string, e models.Expense) (models.Expense, error) {
	if err := validateExpense(e); err != nil {
		return e, err
	}
	e.ID = s.newID()
	if e.Date == "" {
		e.Date = s.today()
	}
	err := s.write(ctx, ownerID, "CreateExpense", func(tx *database.Tx) error {
		return tx.InsertExpense(ctx, e)
	})
	return e, err
}

func (s *Service) UpdateExpense(ctx context.Context, ownerID string, e models.Expense) (models.Expense, error) {
	if err := validateExpense(e); err != nil {
		return e, err
	}
	err := s.write(ctx, ownerID, "UpdateExpense", func(tx *database.Tx) error {
		if _, err := tx.GetExpense(ctx, e.ID); err != nil {
			return err
		}
		return tx.UpdateExpense(ctx, e)
	})
	return e, err
}

func (s *Service) DeleteExpense(ctx context.Context, ownerID, id string) error {
	return s.write(ctx, ownerID, "DeleteExpense", func(tx *database.Tx) error {
		return tx.DeleteExpense(ctx, id)
	})
}
