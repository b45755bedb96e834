package api

import (
	"net/http"

	"rufay/internal/models"
)

func (h *Handler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.ledger.ListParties(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, parties)
}

func (h *Handler) GetParty(w http.ResponseWriter, r *http.Request) {
	party, err := h.ledger.GetParty(r.Context(), claimsFrom(r).OwnerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, party)
}

func (h *Handler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var p models.Party
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	party, err := h.ledger.CreateParty(r.Context(), claimsFrom(r).OwnerID, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, party)
}

func (h *Handler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	var p models.Party
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	p.ID = pathID(r)
	party, err := h.ledger.UpdateParty(r.Context(), claimsFrom(r).OwnerID, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, party)
}

func (h *Handler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteParty(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PartyStatement(w http.ResponseWriter, r *http.Request) {
	st, err := h.ledger.PartyStatement(r.Context(), claimsFrom(r).OwnerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.ledger.ListProducts(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	product, err := h.ledger.CreateProduct(r.Context(), claimsFrom(r).OwnerID, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	p.ID = pathID(r)
	product, err := h.ledger.UpdateProduct(r.Context(), claimsFrom(r).OwnerID, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteProduct(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ledger.ListExpenses(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if err := decodeJSON(r, &e); err != nil {
		h.fail(w, r, err)
		return
	}
	expense, err := h.ledger.CreateExpense(r.Context(), claimsFrom(r).OwnerID, e)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if err := decodeJSON(r, &e); err != nil {
		h.fail(w, r, err)
		return
	}
	e.ID = pathID(r)
	expense, err := h.ledger.UpdateExpense(r.Context(), claimsFrom(r).OwnerID, e)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteExpense(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.ledger.ListSeries(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, series)
}

func (h *Handler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var s models.Series
	if err := decodeJSON(r, &s); err != nil {
		h.fail(w, r, err)
		return
	}
	series, err := h.ledger.CreateSeries(r.Context(), claimsFrom(r).OwnerID, s)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, series)
}

func (h *Handler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	var s models.Series
	if err := decodeJSON(r, &s); err != nil {
		h.fail(w, r, err)
		return
	}
	s.ID = pathID(r)
	series, err := h.ledger.UpdateSeries(r.Context(), claimsFrom(r).OwnerID, s)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, series)
}

func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteSeries(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
