package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"roomly/internal/feedback/service"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FeedbackHandler struct {
	service service.FeedbackService
	logger  *logger.Logger
}

func NewFeedbackHandler(svc service.FeedbackService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: svc,
		logger:  log,
	}
}

func (h *FeedbackHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/feedback", h.Create)
	router.Handle(http.MethodGet, "/feedback/:id", h.GetByID)
	router.Handle(http.MethodPost, "/feedback/:id/resolve", h.Resolve)
	router.Handle(http.MethodPost, "/feedback/:id/dismiss", h.Dismiss)
	router.Handle(http.MethodGet, "/rooms/:id/feedback", h.ListByRoom)
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.UserID(r.Context())
	if actorID == "" {
		h.writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var feedback model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), actorID, &feedback)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *FeedbackHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	feedback, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, feedback); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

type closeRequest struct {
	Comment string `json:"comment"`
}

func (h *FeedbackHandler) Resolve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.close(w, r, ps.ByName("id"), h.service.Resolve)
}

func (h *FeedbackHandler) Dismiss(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.close(w, r, ps.ByName("id"), h.service.Dismiss)
}

func (h *FeedbackHandler) close(
	w http.ResponseWriter,
	r *http.Request,
	feedbackID string,
	op func(ctx context.Context, actorID, feedbackID, comment string) (*model.Feedback, error),
) {
	actorID := middleware.UserID(r.Context())
	if actorID == "" {
		h.writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var req closeRequest
	if r.Body != nil {
		// the comment is optional, an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	feedback, err := op(r.Context(), actorID, feedbackID, req.Comment)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, feedback); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *FeedbackHandler) ListByRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	feedback, total, err := h.service.ListByRoom(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, feedback, total, limit, offset); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

func (h *FeedbackHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, apperrors.AsAppError(err)); writeErr != nil {
		h.logger.Error("Failed to write error response", "error", writeErr)
	}
}
