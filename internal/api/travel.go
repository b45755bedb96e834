package api

import (
	"net/http"

	"go.temporal.io/sdk/client"

	"rufay/internal/models"
	"rufay/internal/temporal/workflows"
)

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.ledger.ListBookings(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.ledger.GetBooking(r.Context(), claimsFrom(r).OwnerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.ledger.CreateBooking(r.Context(), claimsFrom(r).OwnerID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteBooking(r.Context(), claimsFrom(r).OwnerID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListOnlineBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.ledger.ListOnlineBookings(r.Context(), claimsFrom(r).OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

func (h *Handler) GetOnlineBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.ledger.GetOnlineBooking(r.Context(), claimsFrom(r).OwnerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// CreateOnlineBooking stores the booking and, when Temporal is configured, starts its hold.
// A hold that fails to start is logged; the booking itself is already committed.
func (h *Handler) CreateOnlineBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOnlineBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ownerID := claimsFrom(r).OwnerID
	b, err := h.ledger.AddOnlineBooking(r.Context(), ownerID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.temporal != nil {
		input := models.OnlineBookingInput{
			OwnerID:     ownerID,
			BookingID:   b.ID,
			HoldSeconds: int64(h.hold.Seconds()),
		}
		_, err := h.temporal.ExecuteWorkflow(r.Context(), client.StartWorkflowOptions{
			ID:        workflows.WorkflowID(ownerID, b.ID),
			TaskQueue: h.taskQueue,
		}, workflows.OnlineBookingHoldWorkflow, input)
		if err != nil {
			h.log.Warn().Err(err).Str("online_booking_id", b.ID).Msg("failed to start hold workflow")
		}
	}

	respondJSON(w, http.StatusCreated, b)
}

func (h *Handler) ConfirmPNR(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmPNRRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ownerID := claimsFrom(r).OwnerID
	b, err := h.ledger.ConfirmPNR(r.Context(), ownerID, pathID(r), req.PNR)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.signal(r, ownerID, b.ID, workflows.SignalPNRConfirmed, b.PNR)
	respondJSON(w, http.StatusOK, b)
}

func (h *Handler) CancelOnlineBooking(w http.ResponseWriter, r *http.Request) {
	ownerID := claimsFrom(r).OwnerID
	b, err := h.ledger.CancelOnlineBooking(r.Context(), ownerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.signal(r, ownerID, b.ID, workflows.SignalBookingCancelled, "cancelled by user")
	respondJSON(w, http.StatusOK, b)
}

// signal tells a running hold workflow that the booking was resolved. The ledger change is
// already committed, so a finished or missing workflow is not an error.
func (h *Handler) signal(r *http.Request, ownerID, bookingID, name, arg string) {
	if h.temporal == nil {
		return
	}
	err := h.temporal.SignalWorkflow(r.Context(), workflows.WorkflowID(ownerID, bookingID), "", name, arg)
	if err != nil {
		h.log.Debug().Err(err).Str("online_booking_id", bookingID).Str("signal", name).Msg("hold workflow not signalled")
	}
}

// HoldStatus reports the hold workflow state, falling back to the stored booking when the
// workflow is not running or Temporal is not configured.
func (h *Handler) HoldStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := claimsFrom(r).OwnerID
	b, err := h.ledger.GetOnlineBooking(r.Context(), ownerID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fallback := models.OnlineBookingState{OwnerID: ownerID, BookingID: b.ID, Status: b.Status, PNR: b.PNR}

	if h.temporal == nil {
		respondJSON(w, http.StatusOK, fallback)
		return
	}
	resp, err := h.temporal.QueryWorkflow(r.Context(), workflows.WorkflowID(ownerID, b.ID), "", workflows.QueryGetStatus)
	if err != nil {
		respondJSON(w, http.StatusOK, fallback)
		return
	}
	var state models.OnlineBookingState
	if err := resp.Get(&state); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		respondError(w, http.StatusServiceUnavailable, "flight search is not configured")
		return
	}
	var criteria models.SearchCriteria
	if err := decodeJSON(r, &criteria); err != nil {
		h.fail(w, r, err)
		return
	}
	itineraries, err := h.search.Search(r.Context(), criteria)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, itineraries)
}
