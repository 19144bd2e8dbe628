/**
 * @description
 * This file defines the uniform response envelope and the mapping from
 * business errors to HTTP statuses. Every endpoint answers with the same
 * shape: {success, message, data, errors}; user-facing messages are Persian.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tikkieiran/backend/internal/app"
	"github.com/tikkieiran/backend/internal/store"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string, errs []string) {
	writeJSON(w, status, apiResponse{Success: false, Message: message, Errors: errs})
}

// writeBusinessError maps a service error to its status and Persian message.
// Unknown errors surface as a generic 500 so internals never leak.
func writeBusinessError(w http.ResponseWriter, err error) {
	var declined *app.GatewayDeclinedError
	var limited *app.RateLimitedError

	switch {
	case errors.Is(err, app.ErrPhoneAlreadyRegistered):
		writeError(w, http.StatusConflict, "این شماره موبایل قبلا ثبت شده است", nil)
	case errors.Is(err, app.ErrNationalIDAlreadyRegistered):
		writeError(w, http.StatusConflict, "این کد ملی قبلا ثبت شده است", nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "شماره موبایل یا رمز عبور اشتباه است", nil)
	case errors.Is(err, app.ErrInvalidVerificationCode):
		writeError(w, http.StatusBadRequest, "کد تایید نامعتبر یا منقضی است", nil)
	case errors.Is(err, app.ErrInvalidCardNumber):
		writeError(w, http.StatusBadRequest, "شماره کارت نامعتبر است", nil)
	case errors.Is(err, app.ErrCardAlreadyRegistered):
		writeError(w, http.StatusConflict, "این کارت قبلا ثبت شده است", nil)
	case errors.Is(err, app.ErrCardVerificationFailed):
		writeError(w, http.StatusBadRequest, "اطلاعات کارت تایید نشد", nil)
	case errors.Is(err, app.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "مبلغ نامعتبر است", nil)
	case errors.Is(err, app.ErrInvalidDescription):
		writeError(w, http.StatusBadRequest, "توضیحات باید حداقل ۲ کاراکتر باشد", nil)
	case errors.Is(err, app.ErrNoSenderCard):
		writeError(w, http.StatusBadRequest, "ابتدا یک کارت بانکی ثبت کنید", nil)
	case errors.Is(err, app.ErrReceiverCardNotFound):
		writeError(w, http.StatusNotFound, "کارت مقصد در سامانه ثبت نشده است", nil)
	case errors.Is(err, app.ErrSelfTransferNotAllowed):
		writeError(w, http.StatusBadRequest, "انتقال به کارت خودتان مجاز نیست", nil)
	case errors.Is(err, app.ErrSelfPaymentNotAllowed):
		writeError(w, http.StatusBadRequest, "پرداخت درخواست خودتان مجاز نیست", nil)
	case errors.Is(err, app.ErrRequestExpired):
		writeError(w, http.StatusGone, "این درخواست پرداخت منقضی شده است", nil)
	case errors.Is(err, app.ErrRequestAlreadyPaid):
		writeError(w, http.StatusConflict, "این درخواست قبلا پرداخت شده است", nil)
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "کاربر یافت نشد", nil)
	case errors.Is(err, store.ErrCardNotFound):
		writeError(w, http.StatusNotFound, "کارت یافت نشد", nil)
	case errors.Is(err, store.ErrPaymentRequestNotFound):
		writeError(w, http.StatusNotFound, "درخواست پرداخت یافت نشد", nil)
	case errors.As(err, &declined):
		writeError(w, http.StatusBadRequest, declined.Message, nil)
	case errors.As(err, &limited):
		writeError(w, http.StatusTooManyRequests, "درخواست‌های زیاد؛ کمی بعد دوباره تلاش کنید", nil)
	default:
		log.Printf("level=error component=api msg=\"unhandled service error\" err=%v", err)
		writeError(w, http.StatusInternalServerError, "خطای داخلی سرور", nil)
	}
}

// decodeBody parses the JSON request body into dst, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "بدنه درخواست نامعتبر است", nil)
		return false
	}
	return true
}
