package handler

import (
	"net/http"
	"strings"

	"feedbackboard/internal/http/response"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/logger"
	"feedbackboard/internal/validation"

	"github.com/go-chi/chi/v5"
)

type InsightHandler struct {
	Svc       *insight.Service
	Validator *validation.Validator
	Log       *logger.Logger
}

func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := insight.ListFilter{ThemeID: strings.TrimSpace(q.Get("theme_id"))}
	for _, id := range q["tag_id"] {
		if id = strings.TrimSpace(id); id != "" {
			f.TagIDs = append(f.TagIDs, id)
		}
	}

	rows, err := h.Svc.List(r.Context(), f)
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	response.OK(w, toInsightDTOs(rows), h.Log)
}

func (h *InsightHandler) Get(w http.ResponseWriter, r *http.Request) {
	in, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	response.OK(w, toInsightDTO(*in), h.Log)
}

type moveReq struct {
	ThemeID string `json:"theme_id" validate:"required"`
}

// Move is the board drag-and-drop: confirm a theme and drop the suggestion.
func (h *InsightHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	req.ThemeID = strings.TrimSpace(req.ThemeID)
	if err := h.Validator.Validate(req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}

	in, err := h.Svc.Move(r.Context(), chi.URLParam(r, "id"), req.ThemeID)
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	response.OK(w, toInsightDTO(*in), h.Log)
}

func (h *InsightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type attachTagReq struct {
	TagID string `json:"tag_id" validate:"required"`
}

func (h *InsightHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	var req attachTagReq
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	if err := h.Validator.Validate(req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Svc.AttachTag(r.Context(), id, req.TagID); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	in, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	response.OK(w, toInsightDTO(*in), h.Log)
}

func (h *InsightHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.UnlinkTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID")); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
