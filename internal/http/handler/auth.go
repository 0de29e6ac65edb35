package handler

import (
	"errors"
	"net/http"
	"strings"

	"feedbackboard/internal/apperr"
	"feedbackboard/internal/auth"
	"feedbackboard/internal/http/response"
	"feedbackboard/internal/logger"
)

type AuthHandler struct {
	Codes        *auth.Codes
	JWT          *auth.JWT
	CookieSecure bool
	Log          *logger.Logger
}

type validateCodeReq struct {
	Code string `json:"code"`
}

func (h *AuthHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	var req validateCodeReq
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		response.HandleError(w, apperr.Validation("Code is required"), h.Log)
		return
	}

	ac, err := h.Codes.Verify(r.Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCode) {
			response.HandleError(w, apperr.Unauthorized("Invalid access code"), h.Log)
			return
		}
		response.HandleError(w, apperr.Upstream("Failed to validate code", err), h.Log)
		return
	}

	token, _, err := h.JWT.Sign(ac.ID)
	if err != nil {
		response.HandleError(w, apperr.Internal("Something went wrong").WithCause(err), h.Log)
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.CookieSecure))
	response.OK(w, map[string]any{"ok": true}, h.Log)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.SessionCookie("", h.CookieSecure))
	response.OK(w, map[string]any{"ok": true}, h.Log)
}
