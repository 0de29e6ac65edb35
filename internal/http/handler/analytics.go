package handler

import (
	"net/http"

	"feedbackboard/internal/http/response"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/logger"
)

type AnalyticsHandler struct {
	Svc *insight.Service
	Log *logger.Logger
}

type tagCountDTO struct {
	TagID        string           `json:"tag_id"`
	TagName      string           `json:"tag_name"`
	ColorCode    *string          `json:"color_code"`
	CountAll     int64            `json:"count_all"`
	CountByTheme map[string]int64 `json:"count_by_theme"`
}

func (h *AnalyticsHandler) TagFrequency(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.TagFrequency(r.Context())
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	out := make([]tagCountDTO, 0, len(counts))
	for _, c := range counts {
		out = append(out, tagCountDTO{
			TagID:        c.TagID,
			TagName:      c.TagName,
			ColorCode:    c.ColorCode,
			CountAll:     c.CountAll,
			CountByTheme: c.CountByTheme,
		})
	}
	response.OK(w, out, h.Log)
}
