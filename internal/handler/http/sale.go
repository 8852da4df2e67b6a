package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
	"github.com/cruisehub/reseller-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SaleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)

	Submit(w http.ResponseWriter, r *http.Request)
	CancelSubmission(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Refund(w http.ResponseWriter, r *http.Request)

	MarkCardPayment(w http.ResponseWriter, r *http.Request)
	MarkReceipt(w http.ResponseWriter, r *http.Request)
}

type SaleHandlerImpl struct {
	saleService sale.SaleService
}

func NewSaleHandler(saleService sale.SaleService) SaleHandler {
	return &SaleHandlerImpl{saleService: saleService}
}

// Create implements SaleHandler.
func (h *SaleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req sale.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create sale decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.saleService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Sale created successfully", sale.ToResponse(created))
}

// List implements SaleHandler.
func (h *SaleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := sale.ListFilter{Page: 1, Limit: 20}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := sale.SaleStatus(raw)
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &from
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = &to
		}
	}

	sales, total, err := h.saleService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	response.SuccessWithMeta(w, sale.ToResponses(sales), &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetByID implements SaleHandler.
func (h *SaleHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	saleID := chi.URLParam(r, "id")
	if saleID == "" {
		response.BadRequest(w, "Sale ID is required", nil)
		return
	}

	found, err := h.saleService.GetByID(r.Context(), actor, saleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sale.ToResponse(found))
}

// Submit implements SaleHandler.
func (h *SaleHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	saleID := chi.URLParam(r, "id")
	submitted, err := h.saleService.Submit(r.Context(), actor, saleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sale submitted for approval", sale.ToResponse(submitted))
}

// CancelSubmission implements SaleHandler.
func (h *SaleHandlerImpl) CancelSubmission(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	saleID := chi.URLParam(r, "id")
	cancelled, err := h.saleService.CancelSubmission(r.Context(), actor, saleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Submission cancelled", sale.ToResponse(cancelled))
}

// Approve implements SaleHandler.
func (h *SaleHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	saleID := chi.URLParam(r, "id")
	approved, err := h.saleService.Approve(r.Context(), actor.ProfileID, saleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sale approved successfully", sale.ToResponse(approved))
}

// Reject implements SaleHandler.
func (h *SaleHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req sale.RejectSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject sale decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saleID := chi.URLParam(r, "id")
	rejected, err := h.saleService.Reject(r.Context(), actor.ProfileID, saleID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sale rejected", sale.ToResponse(rejected))
}

// Refund implements SaleHandler.
func (h *SaleHandlerImpl) Refund(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req sale.RefundSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Refund sale decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saleID := chi.URLParam(r, "id")
	refunded, err := h.saleService.Refund(r.Context(), actor.ProfileID, saleID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sale refunded", sale.ToResponse(refunded))
}

// MarkCardPayment implements SaleHandler.
func (h *SaleHandlerImpl) MarkCardPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	saleID := chi.URLParam(r, "id")
	updated, err := h.saleService.MarkCardPaymentCompleted(r.Context(), actor.ProfileID, saleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Card payment marked as completed", sale.ToResponse(updated))
}

// MarkReceipt implements SaleHandler.
func (h *SaleHandlerImpl) MarkReceipt(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	saleID := chi.URLParam(r, "id")
	updated, err := h.saleService.MarkReceiptIssued(r.Context(), actor.ProfileID, saleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Receipt marked as issued", sale.ToResponse(updated))
}
