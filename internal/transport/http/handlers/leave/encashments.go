package leavehandler

import (
	"net/http"
	"strconv"
	"strings"

	"hrleave/internal/domain/leave"
	"hrleave/internal/transport/http/api"
	"hrleave/internal/transport/http/middleware"
	"hrleave/internal/transport/http/shared"
)

type markAsPaidRequest struct {
	PayrollRef string `json:"payrollRef"`
}

func (h *Handler) handleListEncashments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	filter := leave.EncashmentFilter{
		EmployeeID: v.Int64("employeeId", q.Get("employeeId")),
		BalanceID:  v.Int64("balanceId", q.Get("balanceId")),
		Status:     leave.EncashmentStatus(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
	}
	v.Enum("status", q.Get("status"), []string{
		string(leave.EncashmentStatusPending),
		string(leave.EncashmentStatusPaid),
	}, "must be PENDING or PAID")
	if v.Reject(w, reqID) {
		return
	}

	page, err := h.Service.ListEncashments(r.Context(), filter, shared.ParsePagination(r, shared.DefaultLimit, shared.MaxLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	api.Success(w, page, reqID)
}

func (h *Handler) handleCreateEncashment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var cmd leave.CreateLeaveEncashmentCommand
	if !shared.DecodeJSON(w, r, &cmd, reqID) {
		return
	}
	cmd.Actor = middleware.GetActor(r.Context())

	e, err := h.Service.CreateEncashment(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, e, reqID)
}

func (h *Handler) handleGetEncashment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "encashmentID")
	if !ok {
		return
	}
	e, err := h.Service.GetEncashment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, e, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkAsPaid(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "encashmentID")
	if !ok {
		return
	}
	var req markAsPaidRequest
	if !shared.DecodeJSON(w, r, &req, reqID) {
		return
	}

	e, err := h.Service.MarkAsPaid(r.Context(), leave.MarkAsPaidLeaveEncashmentCommand{
		ID:         id,
		PayrollRef: req.PayrollRef,
		Actor:      middleware.GetActor(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, e, reqID)
}
