package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RecapHandler interface {
	Aggregate(w http.ResponseWriter, r *http.Request)
	AggregateAll(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type recapHandlerImpl struct {
	recapService recap.RecapService
}

func NewRecapHandler(recapService recap.RecapService) RecapHandler {
	return &recapHandlerImpl{recapService: recapService}
}

func (h *recapHandlerImpl) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req recap.AggregateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.recapService.Aggregate(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Recap aggregated", result)
}

func (h *recapHandlerImpl) AggregateAll(w http.ResponseWriter, r *http.Request) {
	var req recap.AggregateAllRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.recapService.AggregateAll(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Recaps aggregated", result)
}

func (h *recapHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := recap.RecapFilter{EmployeeID: queryString(r, "employee_id")}
	if raw := queryString(r, "period"); raw != nil {
		p, err := period.Parse(*raw)
		if err != nil {
			response.HandleError(w, r, recap.ErrInvalidPeriod)
			return
		}
		filter.Period = &p
	}

	result, err := h.recapService.List(r.Context(), middleware.ActorFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}

func (h *recapHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.recapService.Get(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// Export downloads the period's recaps as an XLSX workbook.
func (h *recapHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	p, err := period.Parse(r.URL.Query().Get("period"))
	if err != nil {
		response.HandleError(w, r, recap.ErrInvalidPeriod)
		return
	}

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.recapService.Export(r.Context(), middleware.ActorFromContext(r.Context()), p, &buf); err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.File(w, xlsxContentType, fmt.Sprintf("recap-%s.xlsx", p), buf.Bytes())
}
