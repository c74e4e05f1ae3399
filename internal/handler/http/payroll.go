package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
)

type PayrollHandler interface {
	// Payroll records
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	GetPayroll(w http.ResponseWriter, r *http.Request)
	ListPayrolls(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)

	// Status
	ApprovePayroll(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	// Adjustments
	AddAdjustment(w http.ResponseWriter, r *http.Request)
	RemoveComponent(w http.ResponseWriter, r *http.Request)

	// Payments
	RecordPayment(w http.ResponseWriter, r *http.Request)
	UpdatePaymentStatus(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	fileService    file.FileService
}

func NewPayrollHandler(payrollService payroll.PayrollService, fileService file.FileService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService, fileService: fileService}
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.GenerateFromRecap(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Payroll generated", result)
}

func (h *payrollHandlerImpl) GetPayroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Get(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrolls(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
	}
	if raw := queryString(r, "period"); raw != nil {
		p, err := period.Parse(*raw)
		if err != nil {
			response.HandleError(w, r, recap.ErrInvalidPeriod)
			return
		}
		filter.Period = &p
	}
	filter.Page, filter.Limit = pageParams(r)

	result, err := h.payrollService.List(r.Context(), middleware.ActorFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, result)
}

func (h *payrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.payrollService.Payslip(r.Context(), middleware.ActorFromContext(r.Context()), id, &buf); err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.File(w, "application/pdf", fmt.Sprintf("payslip-%s.pdf", id), buf.Bytes())
}

// ========== STATUS ==========

func (h *payrollHandlerImpl) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Approve(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll approved", result)
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MarkPaid(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll marked as paid", result)
}

// ========== ADJUSTMENTS ==========

func (h *payrollHandlerImpl) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	var req payroll.AddAdjustmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PayrollID = chi.URLParam(r, "id")

	result, err := h.payrollService.AddAdjustment(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Adjustment added", result)
}

func (h *payrollHandlerImpl) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.RemoveComponent(r.Context(), middleware.ActorFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "componentID"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Component removed", result)
}

// ========== PAYMENTS ==========

// RecordPayment accepts a JSON body, or a multipart form with the JSON in
// 'data' and the transfer receipt in 'proof'.
func (h *payrollHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req payroll.RecordPaymentRequest
	req.PayrollID = chi.URLParam(r, "id")

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if !decodeJSON(w, r, &req) {
			return
		}
		h.recordPayment(w, r, req, "")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.ErrorContext(r.Context(), "Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}
	if dataJSON := r.FormValue("data"); dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.PayrollID = chi.URLParam(r, "id")

	proof, header, err := r.FormFile("proof")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	default:
		defer proof.Close()
		ref, err := h.fileService.UploadPaymentProof(r.Context(), req.PayrollID, proof, header.Filename)
		if err != nil {
			response.HandleError(w, r, err)
			return
		}
		req.ProofRef = &ref
		h.recordPayment(w, r, req, ref)
		return
	}

	h.recordPayment(w, r, req, "")
}

// recordPayment removes uploadedRef again when the payment is refused.
func (h *payrollHandlerImpl) recordPayment(w http.ResponseWriter, r *http.Request, req payroll.RecordPaymentRequest, uploadedRef string) {
	result, err := h.payrollService.RecordPayment(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		if uploadedRef != "" {
			if delErr := h.fileService.DeleteFile(r.Context(), uploadedRef); delErr != nil {
				slog.WarnContext(r.Context(), "failed to remove orphaned payment proof", "ref", uploadedRef, "error", delErr)
			}
		}
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Payment recorded", result)
}

func (h *payrollHandlerImpl) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePaymentStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PaymentID = chi.URLParam(r, "paymentID")

	result, err := h.payrollService.UpdatePaymentStatus(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Payment status updated", result)
}
