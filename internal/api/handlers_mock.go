/**
 * @description
 * This file contains the demo-only endpoints: resetting the dataset to fresh
 * generated data and listing the seeded accounts' credentials. They are left
 * unauthenticated on purpose; the whole service is a demo sandbox.
 */

package api

import (
	"net/http"
)

type resetResponse struct {
	Users           int `json:"users"`
	Cards           int `json:"cards"`
	Transactions    int `json:"transactions"`
	PaymentRequests int `json:"paymentRequests"`
}

// ResetDemoDataHandler handles POST /api/mock/reset.
func (h *Handlers) ResetDemoDataHandler(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.service.ResetDemoData(r.Context())
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "داده‌های آزمایشی بازنشانی شد", resetResponse{
		Users:           len(dataset.Users),
		Cards:           len(dataset.Cards),
		Transactions:    len(dataset.Transactions),
		PaymentRequests: len(dataset.PaymentRequests),
	})
}

// DemoUsersHandler handles GET /api/mock/demo-users.
func (h *Handlers) DemoUsersHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "", h.service.DemoUsers(r.Context()))
}
