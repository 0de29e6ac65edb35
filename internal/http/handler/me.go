package handler

import (
	"net/http"
	"time"

	"feedbackboard/internal/auth"
	"feedbackboard/internal/http/response"
	"feedbackboard/internal/logger"
)

type MeHandler struct {
	Log *logger.Logger
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	var expiresAt *time.Time
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		expiresAt = &t
	}
	response.OK(w, map[string]any{
		"authenticated": true,
		"expires_at":    expiresAt,
	}, h.Log)
}
