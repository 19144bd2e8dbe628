/**
 * @description
 * This file contains the HTTP handlers for authentication and profile/card
 * management. Handlers parse and validate the request, call the application
 * service and translate the outcome into the uniform response envelope.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app, internal/domain: Service logic and models.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tikkieiran/backend/internal/app"
	"github.com/tikkieiran/backend/internal/domain"
)

// Handlers holds the application service and token manager used by endpoints.
type Handlers struct {
	service *app.Service
	tokens  *TokenManager
}

func NewHandlers(service *app.Service, tokens *TokenManager) *Handlers {
	return &Handlers{service: service, tokens: tokens}
}

func userView(u *domain.User) domain.UserView {
	return domain.UserView{ID: u.ID, Phone: u.Phone, FirstName: u.FirstName, LastName: u.LastName}
}

// authedSession bundles the token with the redacted user for auth responses.
type authedSession struct {
	Token string          `json:"token"`
	User  domain.UserView `json:"user"`
}

func (h *Handlers) issueSession(w http.ResponseWriter, user *domain.User, status int, message string) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "خطای داخلی سرور", nil)
		return
	}
	writeSuccess(w, status, message, authedSession{Token: token, User: userView(user)})
}

// RegisterHandler handles POST /api/auth/register.
func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.RegisterPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateRegister(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	h.issueSession(w, user, http.StatusCreated, "ثبت نام با موفقیت انجام شد")
}

// LoginHandler handles POST /api/auth/login.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.LoginPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateLogin(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	user, err := h.service.Login(r.Context(), payload.Phone, payload.Password)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	h.issueSession(w, user, http.StatusOK, "ورود موفق")
}

// SendCodeHandler handles POST /api/auth/send-code.
func (h *Handlers) SendCodeHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.SendCodePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateSendCode(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	expiresIn, err := h.service.SendVerificationCode(r.Context(), payload.Phone)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "کد تایید ارسال شد", map[string]int{"expiresIn": expiresIn})
}

// VerifyCodeHandler handles POST /api/auth/verify-code.
func (h *Handlers) VerifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.VerifyCodePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateVerifyCode(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	if err := h.service.VerifyCode(r.Context(), payload.Phone, payload.Code); err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "کد تایید شد", nil)
}

// ProfileHandler handles GET /api/user/profile.
func (h *Handlers) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", profile)
}

// UpdateProfileHandler handles PUT /api/user/profile.
func (h *Handlers) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}
	var payload domain.UpdateProfilePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateUpdateProfile(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, payload)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "پروفایل بروزرسانی شد", userView(user))
}

// ListCardsHandler handles GET /api/user/cards.
func (h *Handlers) ListCardsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}

	cards, err := h.service.ListCards(r.Context(), userID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", cards)
}

// AddCardHandler handles POST /api/user/cards.
func (h *Handlers) AddCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}
	var payload domain.AddCardPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if errs := validateAddCard(payload); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0], errs)
		return
	}

	card, err := h.service.AddCard(r.Context(), userID, payload)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "کارت با موفقیت ثبت شد", card)
}

// DeleteCardHandler handles DELETE /api/user/cards/{cardID}.
func (h *Handlers) DeleteCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}
	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "شناسه کارت نامعتبر است", nil)
		return
	}

	if err := h.service.DeleteCard(r.Context(), userID, cardID); err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "کارت حذف شد", nil)
}

// SetPrimaryCardHandler handles PUT /api/user/cards/{cardID}/primary.
func (h *Handlers) SetPrimaryCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "توکن نامعتبر است", nil)
		return
	}
	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "شناسه کارت نامعتبر است", nil)
		return
	}

	if err := h.service.SetPrimaryCard(r.Context(), userID, cardID); err != nil {
		writeBusinessError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "کارت اصلی تغییر کرد", nil)
}
