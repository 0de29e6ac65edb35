package handler

import (
	"net/http"

	"feedbackboard/internal/http/response"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/logger"
	"feedbackboard/internal/validation"

	"github.com/go-chi/chi/v5"
)

type TagHandler struct {
	Svc       *insight.Service
	Validator *validation.Validator
	Log       *logger.Logger
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Svc.Tags(r.Context())
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	out := make([]tagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagDTO(t))
	}
	response.OK(w, out, h.Log)
}

type createTagReq struct {
	Name      string  `json:"name" validate:"required,max=64"`
	ColorCode *string `json:"color_code" validate:"omitempty,hexcolor"`
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagReq
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	req.Name = insight.NormalizeTagName(req.Name)
	req.ColorCode = blankToNil(req.ColorCode)
	if err := h.Validator.Validate(req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}

	t, err := h.Svc.CreateTag(r.Context(), req.Name, req.ColorCode)
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	response.Created(w, toTagDTO(*t), h.Log)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
