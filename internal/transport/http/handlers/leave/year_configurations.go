package leavehandler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrleave/internal/domain/leave"
	"hrleave/internal/transport/http/api"
	"hrleave/internal/transport/http/middleware"
	"hrleave/internal/transport/http/shared"
)

type yearConfigurationRequest struct {
	Year            int    `json:"year"`
	CutoffStartDate string `json:"cutoffStartDate"`
	CutoffEndDate   string `json:"cutoffEndDate"`
	Remarks         string `json:"remarks"`
}

func (req yearConfigurationRequest) dates(v *shared.Validator) (start, end time.Time) {
	start, _ = v.Date("cutoffStartDate", req.CutoffStartDate)
	end, _ = v.Date("cutoffEndDate", req.CutoffEndDate)
	return start, end
}

func (h *Handler) handleListYearConfigurations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	filter := leave.YearConfigFilter{
		IncludeArchived: v.Bool("includeArchived", r.URL.Query().Get("includeArchived")),
	}
	if v.Reject(w, reqID) {
		return
	}

	page, err := h.Service.ListYearConfigurations(r.Context(), filter, shared.ParsePagination(r, shared.DefaultLimit, shared.MaxLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	api.Success(w, page, reqID)
}

func (h *Handler) handleCreateYearConfiguration(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var req yearConfigurationRequest
	if !shared.DecodeJSON(w, r, &req, reqID) {
		return
	}
	v := shared.NewValidator()
	start, end := req.dates(v)
	if v.Reject(w, reqID) {
		return
	}

	cfg, err := h.Service.CreateYearConfiguration(r.Context(), leave.CreateLeaveYearConfigurationCommand{
		Year:            req.Year,
		CutoffStartDate: start,
		CutoffEndDate:   end,
		Remarks:         req.Remarks,
		Actor:           middleware.GetActor(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, cfg, reqID)
}

func (h *Handler) handleFindYearConfiguration(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "year", Reason: "must be a positive integer"}})
		return
	}
	cfg, err := h.Service.FindYearConfiguration(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, cfg, reqID)
}

func (h *Handler) handleGetYearConfiguration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "configID")
	if !ok {
		return
	}
	cfg, err := h.Service.GetYearConfiguration(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, cfg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateYearConfiguration(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "configID")
	if !ok {
		return
	}
	var req yearConfigurationRequest
	if !shared.DecodeJSON(w, r, &req, reqID) {
		return
	}
	v := shared.NewValidator()
	start, end := req.dates(v)
	if v.Reject(w, reqID) {
		return
	}

	cfg, err := h.Service.UpdateYearConfiguration(r.Context(), leave.UpdateLeaveYearConfigurationCommand{
		ID:              id,
		Year:            req.Year,
		CutoffStartDate: start,
		CutoffEndDate:   end,
		Remarks:         req.Remarks,
		Actor:           middleware.GetActor(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, cfg, reqID)
}

func (h *Handler) handleArchiveYearConfiguration(w http.ResponseWriter, r *http.Request) {
	h.yearConfigAction(w, r, h.Service.ArchiveYearConfiguration)
}

func (h *Handler) handleRestoreYearConfiguration(w http.ResponseWriter, r *http.Request) {
	h.yearConfigAction(w, r, h.Service.RestoreYearConfiguration)
}

func (h *Handler) yearConfigAction(w http.ResponseWriter, r *http.Request, action func(context.Context, int64, string) (*leave.LeaveYearConfiguration, error)) {
	id, ok := pathID(w, r, "configID")
	if !ok {
		return
	}
	cfg, err := action(r.Context(), id, middleware.GetActor(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, cfg, middleware.GetRequestID(r.Context()))
}
