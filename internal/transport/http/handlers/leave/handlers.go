package leavehandler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrleave/internal/domain/leave"
	"hrleave/internal/platform/logging"
	"hrleave/internal/transport/http/api"
	"hrleave/internal/transport/http/middleware"
	"hrleave/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Logger  *zap.Logger
}

func NewHandler(service *leave.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Route("/balances", func(r chi.Router) {
			r.Get("/", h.handleListBalances)
			r.Post("/", h.handleCreateBalance)
			r.Get("/lookup", h.handleFindBalance)
			r.Post("/generate", h.handleGenerateForYear)
			r.Post("/generate/all", h.handleGenerateForAll)
			r.Post("/generate/entries", h.handleGenerateEntries)
			r.Get("/{balanceID}", h.handleGetBalance)
			r.Get("/{balanceID}/transactions", h.handleListTransactions)
			r.Post("/{balanceID}/transactions", h.handleRecordTransaction)
			r.Post("/{balanceID}/carry-over", h.handleCarryOver)
			r.Post("/{balanceID}/close", h.handleCloseBalance)
			r.Post("/{balanceID}/archive", h.handleArchiveBalance)
			r.Post("/{balanceID}/restore", h.handleRestoreBalance)
			r.Get("/{balanceID}/reconciliation", h.handleReconcileBalance)
			r.Get("/{balanceID}/statement.pdf", h.handleStatement)
		})
		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.handleListPolicies)
			r.Post("/", h.handleCreatePolicy)
			r.Get("/active", h.handleGetActivePolicy)
			r.Get("/{policyID}", h.handleGetPolicy)
			r.Put("/{policyID}", h.handleUpdatePolicy)
			r.Post("/{policyID}/activate", h.handleActivatePolicy)
			r.Get("/{policyID}/can-retire", h.handleCanRetirePolicy)
			r.Post("/{policyID}/retire", h.handleRetirePolicy)
		})
		r.Route("/encashments", func(r chi.Router) {
			r.Get("/", h.handleListEncashments)
			r.Post("/", h.handleCreateEncashment)
			r.Get("/{encashmentID}", h.handleGetEncashment)
			r.Post("/{encashmentID}/paid", h.handleMarkAsPaid)
		})
		r.Route("/year-configurations", func(r chi.Router) {
			r.Get("/", h.handleListYearConfigurations)
			r.Post("/", h.handleCreateYearConfiguration)
			r.Get("/by-year/{year}", h.handleFindYearConfiguration)
			r.Get("/{configID}", h.handleGetYearConfiguration)
			r.Put("/{configID}", h.handleUpdateYearConfiguration)
			r.Post("/{configID}/archive", h.handleArchiveYearConfiguration)
			r.Post("/{configID}/restore", h.handleRestoreYearConfiguration)
		})
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	api.FailError(w, logging.FromContext(r.Context(), h.Logger), err, middleware.GetRequestID(r.Context()))
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: param, Reason: "must be a positive integer"}})
		return 0, false
	}
	return id, true
}

func (h *Handler) handleListBalances(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	filter := leave.BalanceFilter{
		EmployeeID:      v.Int64("employeeId", q.Get("employeeId")),
		LeaveTypeID:     v.Int64("leaveTypeId", q.Get("leaveTypeId")),
		Year:            v.Int("year", q.Get("year")),
		Status:          leave.BalanceStatus(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
		IncludeArchived: v.Bool("includeArchived", q.Get("includeArchived")),
	}
	v.Enum("status", q.Get("status"), []string{string(leave.BalanceStatusOpen), string(leave.BalanceStatusClosed)}, "must be OPEN or CLOSED")
	if v.Reject(w, reqID) {
		return
	}

	page, err := h.Service.ListBalances(r.Context(), filter, shared.ParsePagination(r, shared.DefaultLimit, shared.MaxLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	api.Success(w, page, reqID)
}

func (h *Handler) handleCreateBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var cmd leave.CreateLeaveBalanceCommand
	if !shared.DecodeJSON(w, r, &cmd, reqID) {
		return
	}
	cmd.Actor = middleware.GetActor(r.Context())

	b, err := h.Service.CreateBalance(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, b, reqID)
}

func (h *Handler) handleFindBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	employeeID := v.Int64("employeeId", q.Get("employeeId"))
	leaveTypeID := v.Int64("leaveTypeId", q.Get("leaveTypeId"))
	year := v.Int("year", q.Get("year"))
	if employeeID == 0 {
		v.Add("employeeId", "is required")
	}
	if leaveTypeID == 0 {
		v.Add("leaveTypeId", "is required")
	}
	if year == 0 {
		v.Add("year", "is required")
	}
	if v.Reject(w, reqID) {
		return
	}

	b, err := h.Service.FindBalance(r.Context(), employeeID, leaveTypeID, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if b == nil {
		h.fail(w, r, leave.ErrBalanceNotFound)
		return
	}
	api.Success(w, b, reqID)
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "balanceID")
	if !ok {
		return
	}
	b, err := h.Service.GetBalance(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, b, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "balanceID")
	if !ok {
		return
	}
	rows, err := h.Service.ListTransactions(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "balanceID")
	if !ok {
		return
	}
	var cmd leave.RecordTransactionCommand
	if !shared.DecodeJSON(w, r, &cmd, reqID) {
		return
	}
	cmd.BalanceID = id
	cmd.Actor = middleware.GetActor(r.Context())

	tx, err := h.Service.RecordTransaction(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, tx, reqID)
}

func (h *Handler) handleCarryOver(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "balanceID")
	if !ok {
		return
	}
	var cmd leave.CarryOverCommand
	if !shared.DecodeJSON(w, r, &cmd, reqID) {
		return
	}
	cmd.SourceBalanceID = id
	cmd.Actor = middleware.GetActor(r.Context())

	target, err := h.Service.CarryOver(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, target, reqID)
}

func (h *Handler) handleCloseBalance(w http.ResponseWriter, r *http.Request) {
	h.balanceAction(w, r, h.Service.CloseBalance)
}

func (h *Handler) handleArchiveBalance(w http.ResponseWriter, r *http.Request) {
	h.balanceAction(w, r, h.Service.ArchiveBalance)
}

func (h *Handler) handleRestoreBalance(w http.ResponseWriter, r *http.Request) {
	h.balanceAction(w, r, h.Service.RestoreBalance)
}

func (h *Handler) balanceAction(w http.ResponseWriter, r *http.Request, action func(context.Context, int64, string) (*leave.LeaveBalance, error)) {
	id, ok := pathID(w, r, "balanceID")
	if !ok {
		return
	}
	b, err := action(r.Context(), id, middleware.GetActor(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, b, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReconcileBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "balanceID")
	if !ok {
		return
	}
	report, err := h.Service.ReconcileBalance(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "balanceID")
	if !ok {
		return
	}
	doc, err := h.Service.Statement(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=leave-balance-"+strconv.FormatInt(id, 10)+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		logging.FromContext(r.Context(), h.Logger).Warn("write leave statement failed", zap.Error(err))
	}
}

type generateEntriesRequest struct {
	Year    int                     `json:"year"`
	Entries []leave.GenerationEntry `json:"entries"`
}

func (h *Handler) handleGenerateEntries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var req generateEntriesRequest
	if !shared.DecodeJSON(w, r, &req, reqID) {
		return
	}
	result, err := h.Service.Generate(r.Context(), req.Year, req.Entries, middleware.GetActor(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleGenerateForYear(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var cmd leave.GenerateForYearCommand
	if !shared.DecodeJSON(w, r, &cmd, reqID) {
		return
	}
	cmd.Actor = middleware.GetActor(r.Context())

	result, err := h.Service.GenerateForYear(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleGenerateForAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var cmd leave.GenerateForAllEmployeesCommand
	if !shared.DecodeJSON(w, r, &cmd, reqID) {
		return
	}
	cmd.Actor = middleware.GetActor(r.Context())

	result, err := h.Service.GenerateForAllEmployees(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, reqID)
}
