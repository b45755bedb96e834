package api

import (
	"net/http"

	"rufay/internal/models"
)

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.ledger.ListInvoices(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.ledger.GetInvoice(r.Context(), claimsFrom(r).OwnerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	inv, err := h.ledger.CreateInvoiceWithPayment(r.Context(), claimsFrom(r).OwnerID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, inv)
}

func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var in models.Invoice
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	in.ID = pathID(r)
	inv, err := h.ledger.UpdateInvoice(r.Context(), claimsFrom(r).OwnerID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteInvoice(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.ledger.ListPayments(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	payment, err := h.ledger.AddPayment(r.Context(), claimsFrom(r).OwnerID, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if err := decodeJSON(r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	p.ID = pathID(r)
	payment, err := h.ledger.UpdatePayment(r.Context(), claimsFrom(r).OwnerID, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeletePayment(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	quotations, err := h.ledger.ListQuotations(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quotations)
}

func (h *Handler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := h.ledger.GetQuotation(r.Context(), claimsFrom(r).OwnerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (h *Handler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var in models.Quotation
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.ledger.CreateQuotation(r.Context(), claimsFrom(r).OwnerID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

func (h *Handler) UpdateQuotationStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.ledger.UpdateQuotationStatus(r.Context(), claimsFrom(r).OwnerID, pathID(r), req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteQuotation(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListSalesOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.ListSalesOrders(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetSalesOrder(w http.ResponseWriter, r *http.Request) {
	so, err := h.ledger.GetSalesOrder(r.Context(), claimsFrom(r).OwnerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, so)
}

func (h *Handler) CreateSalesOrder(w http.ResponseWriter, r *http.Request) {
	var in models.SalesOrder
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	so, err := h.ledger.CreateSalesOrder(r.Context(), claimsFrom(r).OwnerID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, so)
}

func (h *Handler) UpdateSalesOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	so, err := h.ledger.UpdateSalesOrderStatus(r.Context(), claimsFrom(r).OwnerID, pathID(r), req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, so)
}

func (h *Handler) DeleteSalesOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteSalesOrder(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
