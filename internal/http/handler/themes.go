package handler

import (
	"net/http"

	"feedbackboard/internal/http/response"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/logger"
)

type ThemeHandler struct {
	Svc *insight.Service
	Log *logger.Logger
}

func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	themes, err := h.Svc.Themes(r.Context())
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	out := make([]themeDTO, 0, len(themes))
	for _, t := range themes {
		out = append(out, toThemeDTO(t))
	}
	response.OK(w, out, h.Log)
}
