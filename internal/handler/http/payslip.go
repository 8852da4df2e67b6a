package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/payslip"
	"github.com/cruisehub/reseller-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayslipHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GenerateForPeriod(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Send(w http.ResponseWriter, r *http.Request)
	DispatchApproved(w http.ResponseWriter, r *http.Request)
}

type PayslipHandlerImpl struct {
	payslipService payslip.PayslipService
}

func NewPayslipHandler(payslipService payslip.PayslipService) PayslipHandler {
	return &PayslipHandlerImpl{payslipService: payslipService}
}

// Generate implements PayslipHandler.
func (h *PayslipHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payslip.GeneratePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate payslip decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	generated, err := h.payslipService.Generate(r.Context(), req.ProfileID, req.Period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payslip generated successfully", payslip.ToResponse(generated))
}

// GenerateForPeriod implements PayslipHandler.
func (h *PayslipHandlerImpl) GenerateForPeriod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Period string `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate period payslips decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	generated, err := h.payslipService.GenerateForPeriod(r.Context(), req.Period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payslips generated successfully", payslip.ToResponses(generated))
}

// ListMine implements PayslipHandler.
func (h *PayslipHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	payslips, err := h.payslipService.ListForActor(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip.ToResponses(payslips))
}

// ListPending implements PayslipHandler.
func (h *PayslipHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	status := payslip.PayslipStatusPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = payslip.PayslipStatus(raw)
	}

	payslips, err := h.payslipService.ListByStatus(r.Context(), status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip.ToResponses(payslips))
}

// GetByID implements PayslipHandler.
func (h *PayslipHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	payslipID := chi.URLParam(r, "id")
	if payslipID == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	found, err := h.payslipService.GetByID(r.Context(), actor, payslipID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip.ToResponse(found))
}

// Approve implements PayslipHandler.
func (h *PayslipHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	payslipID := chi.URLParam(r, "id")
	approved, err := h.payslipService.Approve(r.Context(), actor.ProfileID, payslipID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip approved successfully", payslip.ToResponse(approved))
}

// Send implements PayslipHandler.
func (h *PayslipHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "id")
	sent, err := h.payslipService.RenderAndSend(r.Context(), payslipID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip sent", payslip.ToResponse(sent))
}

// DispatchApproved implements PayslipHandler.
func (h *PayslipHandlerImpl) DispatchApproved(w http.ResponseWriter, r *http.Request) {
	sent, err := h.payslipService.DispatchApproved(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("%d payslip(s) dispatched", sent), map[string]int{"sent": sent})
}
