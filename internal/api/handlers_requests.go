/**
 * @description
 * This file contains the HTTP handlers for shareable payment requests. The
 * share-code lookup is public so anyone holding a link can see what they are
 * asked to pay; everything else requires authentication.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tikkieiran/backend/internal/domain"
)

// CreatePaymentRequestHandler handles POST /api/payments/requests.
func (h *Handlers) CreatePaymentRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}
	var payload domain.CreatePaymentRequestPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateCreatePaymentRequest(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	created, err := h.service.CreatePaymentRequest(r.Context(), userID, payload)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "درخواست پرداخت ایجاد شد", created)
}

// ListPaymentRequestsHandler handles GET /api/payments/requests.
func (h *Handlers) ListPaymentRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}

	requests, err := h.service.ListPaymentRequests(r.Context(), userID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", requests)
}

// GetPaymentRequestHandler handles the public GET /api/payments/requests/{shareCode}.
func (h *Handlers) GetPaymentRequestHandler(w http.ResponseWriter, r *http.Request) {
	shareCode := chi.URLParam(r, "shareCode")

	request, err := h.service.GetPaymentRequestByShareCode(r.Context(), shareCode)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", request)
}

// PayPaymentRequestHandler handles POST /api/payments/requests/pay.
func (h *Handlers) PayPaymentRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}
	var payload domain.PayPaymentRequestPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.RequestID == (uuid.UUID{}) {
		writeError(w, http.StatusBadRequest, "شناسه درخواست الزامی است", nil)
		return
	}

	receipt, err := h.service.PayPaymentRequest(r.Context(), userID, payload)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "پرداخت با موفقیت انجام شد", receipt)
}
