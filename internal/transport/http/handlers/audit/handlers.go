package audithandler

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrleave/internal/domain/audit"
	"hrleave/internal/platform/logging"
	"hrleave/internal/transport/http/api"
	"hrleave/internal/transport/http/middleware"
	"hrleave/internal/transport/http/shared"
)

const exportLimit = 5000

// Lister reads the activity log.
type Lister interface {
	Count(ctx context.Context, filter audit.Filter) (int, error)
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service Lister
	Logger  *zap.Logger
}

func NewHandler(service Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/activity", func(r chi.Router) {
		r.Get("/", h.handleListEvents)
		r.Get("/export", h.handleExportEvents)
	})
}

func parseFilter(r *http.Request, v *shared.Validator) audit.Filter {
	q := r.URL.Query()
	return audit.Filter{
		Action:     strings.TrimSpace(q.Get("action")),
		EntityType: strings.TrimSpace(q.Get("entityType")),
		EntityID:   v.Int64("entityId", q.Get("entityId")),
		Actor:      strings.TrimSpace(q.Get("actor")),
	}
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	logger := logging.FromContext(r.Context(), h.Logger)
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	includeDetails := v.Bool("includeDetails", r.URL.Query().Get("includeDetails"))
	if v.Reject(w, reqID) {
		return
	}

	page := shared.ParsePagination(r, 100, 500)
	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		logger.Warn("activity count failed", zap.Error(err))
	}

	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		logger.Error("activity list failed", zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "activity_list_failed", "failed to list activity", reqID)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, reqID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	logger := logging.FromContext(r.Context(), h.Logger)
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	if v.Reject(w, reqID) {
		return
	}

	events, err := h.Service.List(r.Context(), filter, false, exportLimit, 0)
	if err != nil {
		logger.Error("activity export failed", zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "activity_export_failed", "failed to export activity", reqID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=leave-activity.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor", "action", "entity_type", "entity_id", "request_id", "created_at"}); err != nil {
		logger.Warn("activity export header failed", zap.Error(err))
	}
	for _, evt := range events {
		entityID := ""
		if evt.EntityID != nil {
			entityID = strconv.FormatInt(*evt.EntityID, 10)
		}
		row := []string{
			strconv.FormatInt(evt.ID, 10),
			evt.Actor,
			evt.Action,
			evt.EntityType,
			entityID,
			evt.RequestID,
			evt.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			logger.Warn("activity export row failed", zap.Error(err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Warn("activity export flush failed", zap.Error(err))
	}
}
