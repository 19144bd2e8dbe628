/**
 * @description
 * This file contains the HTTP handlers for direct payments and the
 * transaction history.
 */

package api

import (
	"net/http"
	"strconv"

	"github.com/tikkieiran/backend/internal/domain"
)

const defaultTransactionLimit = 50

// CreatePaymentHandler handles POST /api/payments/create.
func (h *Handlers) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}
	var payload domain.CreatePaymentPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateCreatePayment(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	receipt, err := h.service.CreatePayment(r.Context(), userID, payload)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "پرداخت با موفقیت انجام شد", receipt)
}

// ListTransactionsHandler handles GET /api/payments/transactions.
func (h *Handlers) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}

	limit := defaultTransactionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "پارامتر limit نامعتبر است", nil)
			return
		}
		limit = parsed
	}

	txs, err := h.service.ListTransactions(r.Context(), userID, limit)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", txs)
}
