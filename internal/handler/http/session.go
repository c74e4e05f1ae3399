package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type SessionHandler interface {
	// Work session templates
	CreateWorkSession(w http.ResponseWriter, r *http.Request)
	UpdateWorkSession(w http.ResponseWriter, r *http.Request)
	GetWorkSession(w http.ResponseWriter, r *http.Request)
	ListWorkSessions(w http.ResponseWriter, r *http.Request)

	// Realizations
	SubmitRealization(w http.ResponseWriter, r *http.Request)
	ApproveRealization(w http.ResponseWriter, r *http.Request)
	RejectRealization(w http.ResponseWriter, r *http.Request)
	GetRealization(w http.ResponseWriter, r *http.Request)
	ListRealizations(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	sessionService session.SessionService
}

func NewSessionHandler(sessionService session.SessionService) SessionHandler {
	return &sessionHandlerImpl{sessionService: sessionService}
}

// ========== WORK SESSIONS ==========

func (h *sessionHandlerImpl) CreateWorkSession(w http.ResponseWriter, r *http.Request) {
	var req session.CreateWorkSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.sessionService.CreateWorkSession(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Work session created", result)
}

func (h *sessionHandlerImpl) UpdateWorkSession(w http.ResponseWriter, r *http.Request) {
	var req session.UpdateWorkSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.sessionService.UpdateWorkSession(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Work session updated", result)
}

func (h *sessionHandlerImpl) GetWorkSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessionService.GetWorkSession(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}

func (h *sessionHandlerImpl) ListWorkSessions(w http.ResponseWriter, r *http.Request) {
	filter := session.WorkSessionFilter{
		Category:  queryString(r, "category"),
		DayOfWeek: queryInt(r, "day_of_week"),
		Active:    queryBool(r, "active"),
	}

	result, err := h.sessionService.ListWorkSessions(r.Context(), middleware.ActorFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ========== REALIZATIONS ==========

func (h *sessionHandlerImpl) SubmitRealization(w http.ResponseWriter, r *http.Request) {
	var req session.SubmitRealizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.sessionService.Submit(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Session claim submitted", result)
}

func (h *sessionHandlerImpl) ApproveRealization(w http.ResponseWriter, r *http.Request) {
	var req session.ReviewRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.sessionService.Approve(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Session claim approved", result)
}

func (h *sessionHandlerImpl) RejectRealization(w http.ResponseWriter, r *http.Request) {
	var req session.ReviewRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.sessionService.Reject(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Session claim rejected", result)
}

func (h *sessionHandlerImpl) GetRealization(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessionService.GetRealization(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}

func (h *sessionHandlerImpl) ListRealizations(w http.ResponseWriter, r *http.Request) {
	filter := session.RealizationFilter{
		EmployeeID:    queryString(r, "employee_id"),
		WorkSessionID: queryString(r, "work_session_id"),
		Status:        queryString(r, "status"),
		DateFrom:      queryString(r, "date_from"),
		DateTo:        queryString(r, "date_to"),
	}
	filter.Page, filter.Limit = pageParams(r)

	result, err := h.sessionService.ListRealizations(r.Context(), middleware.ActorFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}
