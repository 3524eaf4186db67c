package handler

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"roomly/internal/bookings/service"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	logger  *logger.Logger

	// maxWindows caps how many free or busy windows a single availability
	// response carries; the underlying sequences are unbounded.
	maxWindows int
}

func NewBookingHandler(svc service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:    svc,
		logger:     log,
		maxWindows: 500,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/bookings", h.Create)
	router.HandlerFunc(http.MethodGet, "/bookings", h.List)
	router.Handle(http.MethodGet, "/bookings/:id", h.GetByID)
	router.Handle(http.MethodPost, "/bookings/:id/reschedule", h.Reschedule)
	router.Handle(http.MethodPost, "/bookings/:id/confirm", h.Confirm)
	router.Handle(http.MethodPost, "/bookings/:id/cancel", h.Cancel)

	router.Handle(http.MethodGet, "/rooms/:id/bookings", h.SearchByRoom)
	router.Handle(http.MethodGet, "/rooms/:id/availability", h.CheckAvailability)
	router.Handle(http.MethodGet, "/rooms/:id/availability/free", h.FreeWindows)
	router.Handle(http.MethodGet, "/rooms/:id/availability/busy", h.BusyWindows)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.UserID(r.Context())
	if actorID == "" {
		h.writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	// Booking is for the caller unless the payload names someone else.
	if booking.UserID == "" {
		booking.UserID = actorID
	}

	created, err := h.service.Create(r.Context(), actorID, &booking)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID := middleware.UserID(r.Context())
	if actorID == "" {
		h.writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var req model.BookingReschedule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.Reschedule(r.Context(), actorID, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.applyTransition(w, r, ps.ByName("id"), h.service.Confirm)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.applyTransition(w, r, ps.ByName("id"), h.service.Cancel)
}

func (h *BookingHandler) applyTransition(
	w http.ResponseWriter,
	r *http.Request,
	bookingID string,
	op func(ctx context.Context, actorID, bookingID string) (*model.Booking, error),
) {
	actorID := middleware.UserID(r.Context())
	if actorID == "" {
		h.writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	booking, err := op(r.Context(), actorID, bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) SearchByRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	from, err := httputil.ExtractTimeParam(r, "from", false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	to, err := httputil.ExtractTimeParam(r, "to", false)
	if err != nil {
		h.writeError(w, err)
		return
	}

	bookings, total, err := h.service.SearchByRoom(r.Context(), ps.ByName("id"), from, to, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

type availabilityResponse struct {
	Available             bool     `json:"available"`
	ConflictingBookingIDs []string `json:"conflicting_booking_ids,omitempty"`
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	window, err := h.extractWindow(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	available, conflicts, err := h.service.CheckAvailability(r.Context(), ps.ByName("id"), window)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, availabilityResponse{
		Available:             available,
		ConflictingBookingIDs: conflicts,
	}); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) FreeWindows(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	window, err := h.extractWindow(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	seq, err := h.service.FreeWindows(r.Context(), ps.ByName("id"), window)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeWindows(w, collectWindows(seq, h.maxWindows))
}

func (h *BookingHandler) BusyWindows(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	window, err := h.extractWindow(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	seq, err := h.service.BusyWindows(r.Context(), ps.ByName("id"), window)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeWindows(w, collectWindows(seq, h.maxWindows))
}

func (h *BookingHandler) extractWindow(r *http.Request) (model.Interval, error) {
	from, err := httputil.ExtractTimeParam(r, "from", true)
	if err != nil {
		return model.Interval{}, err
	}
	to, err := httputil.ExtractTimeParam(r, "to", true)
	if err != nil {
		return model.Interval{}, err
	}
	return model.Interval{Start: *from, End: *to}, nil
}

func (h *BookingHandler) writeWindows(w http.ResponseWriter, windows []model.Interval) {
	if err := httputil.WriteSuccess(w, windows); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func collectWindows(seq iter.Seq[model.Interval], limit int) []model.Interval {
	windows := make([]model.Interval, 0)
	for iv := range seq {
		windows = append(windows, iv)
		if len(windows) >= limit {
			break
		}
	}
	return windows
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, apperrors.AsAppError(err)); writeErr != nil {
		h.logger.Error("Failed to write error response", "error", writeErr)
	}
}
