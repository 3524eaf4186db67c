package handler

import (
	"net/http"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthHandler struct {
	mongo  *mongo.Client
	logger *logger.Logger
}

func NewHealthHandler(mongoClient *mongo.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongo:  mongoClient,
		logger: log,
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/health", h.Health)
	router.HandlerFunc(http.MethodGet, "/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := httputil.WriteSuccess(w, map[string]string{"status": "ok"}); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

// Ready reports whether the datastore is reachable; load balancers use it
// to gate traffic during startup and failover.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.mongo.Ping(r.Context(), readpref.Primary()); err != nil {
		h.logger.Warn("Readiness probe failed", "error", err)
		if err := httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"}); err != nil {
			h.logger.Error("Failed to write response", "error", err)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"status": "ready"}); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}
