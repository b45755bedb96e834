package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"rufay/internal/auth"
	"rufay/internal/models"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.auth.ListStaff(r.Context(), claimsFrom(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, staff)
}

func (h *Handler) AddStaff(w http.ResponseWriter, r *http.Request) {
	var req models.StaffRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.auth.AddStaff(r.Context(), claimsFrom(r), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), claimsFrom(r), req); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *Handler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.auth.ChangeEmail(r.Context(), claimsFrom(r), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.ledger.GetSettings(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.Settings
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	settings, err := h.ledger.UpdateSettings(r.Context(), claimsFrom(r).OwnerID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// NextNumber consumes a document number, e.g. to print a manual receipt
func (h *Handler) NextNumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.ledger.NextNumber(r.Context(), claimsFrom(r).OwnerID, mux.Vars(r)["docType"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"number": n})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Dashboard(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.SalesReport(r.Context(), claimsFrom(r).OwnerID, r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Export(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// RestoreData replaces all of the owner's data; admins only
func (h *Handler) RestoreData(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims.Role != models.RoleAdmin {
		h.fail(w, r, auth.ErrForbidden)
		return
	}
	var req models.RestoreRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	version, err := h.ledger.Restore(r.Context(), claims.OwnerID, req.ExpectedVersion, req.Snapshot)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"version": version})
}
