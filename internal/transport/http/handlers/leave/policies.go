package leavehandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hrleave/internal/domain/leave"
	"hrleave/internal/transport/http/api"
	"hrleave/internal/transport/http/middleware"
	"hrleave/internal/transport/http/shared"
)

type policyRequest struct {
	LeaveTypeID             int64           `json:"leaveTypeId"`
	AnnualEntitlement       decimal.Decimal `json:"annualEntitlement"`
	AllowedEmploymentTypes  []string        `json:"allowedEmploymentTypes"`
	AllowedEmployeeStatuses []string        `json:"allowedEmployeeStatuses"`
	MinimumServiceMonths    int             `json:"minimumServiceMonths"`
	EffectiveDate           *string         `json:"effectiveDate"`
	ExpiryDate              *string         `json:"expiryDate"`
	Remarks                 string          `json:"remarks"`
	Draft                   bool            `json:"draft"`
}

type retirePolicyRequest struct {
	ExpiryDate *string `json:"expiryDate"`
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	filter := leave.PolicyFilter{
		LeaveTypeID: v.Int64("leaveTypeId", q.Get("leaveTypeId")),
		Status:      leave.PolicyStatus(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
	}
	v.Enum("status", q.Get("status"), []string{
		string(leave.PolicyStatusDraft),
		string(leave.PolicyStatusActive),
		string(leave.PolicyStatusRetired),
	}, "must be DRAFT, ACTIVE or RETIRED")
	if v.Reject(w, reqID) {
		return
	}

	page, err := h.Service.ListPolicies(r.Context(), filter, shared.ParsePagination(r, shared.DefaultLimit, shared.MaxLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	api.Success(w, page, reqID)
}

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var req policyRequest
	if !shared.DecodeJSON(w, r, &req, reqID) {
		return
	}
	v := shared.NewValidator()
	cmd := leave.CreateLeavePolicyCommand{
		LeaveTypeID:             req.LeaveTypeID,
		AnnualEntitlement:       req.AnnualEntitlement,
		AllowedEmploymentTypes:  req.AllowedEmploymentTypes,
		AllowedEmployeeStatuses: req.AllowedEmployeeStatuses,
		MinimumServiceMonths:    req.MinimumServiceMonths,
		EffectiveDate:           v.OptionalDate("effectiveDate", req.EffectiveDate),
		ExpiryDate:              v.OptionalDate("expiryDate", req.ExpiryDate),
		Remarks:                 req.Remarks,
		Draft:                   req.Draft,
		Actor:                   middleware.GetActor(r.Context()),
	}
	if v.Reject(w, reqID) {
		return
	}

	p, err := h.Service.CreatePolicy(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, p, reqID)
}

func (h *Handler) handleGetActivePolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	code := strings.TrimSpace(r.URL.Query().Get("leaveTypeCode"))
	if code == "" {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "leaveTypeCode", Reason: "is required"}})
		return
	}
	p, err := h.Service.GetActivePolicy(r.Context(), code)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	p, err := h.Service.GetPolicy(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	var req policyRequest
	if !shared.DecodeJSON(w, r, &req, reqID) {
		return
	}
	v := shared.NewValidator()
	cmd := leave.UpdateLeavePolicyCommand{
		ID:                      id,
		AnnualEntitlement:       req.AnnualEntitlement,
		AllowedEmploymentTypes:  req.AllowedEmploymentTypes,
		AllowedEmployeeStatuses: req.AllowedEmployeeStatuses,
		MinimumServiceMonths:    req.MinimumServiceMonths,
		EffectiveDate:           v.OptionalDate("effectiveDate", req.EffectiveDate),
		ExpiryDate:              v.OptionalDate("expiryDate", req.ExpiryDate),
		Remarks:                 req.Remarks,
		Actor:                   middleware.GetActor(r.Context()),
	}
	if v.Reject(w, reqID) {
		return
	}

	p, err := h.Service.UpdatePolicy(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handleActivatePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	p, err := h.Service.ActivatePolicy(r.Context(), id, middleware.GetActor(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCanRetirePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	decision, err := h.Service.CanRetire(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, decision, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRetirePolicy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	var req retirePolicyRequest
	if r.ContentLength != 0 && !shared.DecodeJSON(w, r, &req, reqID) {
		return
	}
	v := shared.NewValidator()
	cmd := leave.RetireLeavePolicyCommand{
		ID:         id,
		ExpiryDate: v.OptionalDate("expiryDate", req.ExpiryDate),
		Actor:      middleware.GetActor(r.Context()),
	}
	if v.Reject(w, reqID) {
		return
	}

	p, err := h.Service.RetirePolicy(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, p, reqID)
}
