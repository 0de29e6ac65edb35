package handler

import (
	"net/http"

	"feedbackboard/internal/analyze"
	"feedbackboard/internal/http/response"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/logger"
	"feedbackboard/internal/validation"
)

type AnalyzeHandler struct {
	Analyzer  *analyze.Analyzer
	Validator *validation.Validator
	Log       *logger.Logger
}

type analyzeReq struct {
	Text         string  `json:"text"`
	SourceURL    *string `json:"sourceUrl" validate:"omitempty,max=2048"`
	SourceType   *string `json:"sourceType" validate:"omitempty,oneof=reddit discord interview slack other"`
	ModAuthorURL *string `json:"modAuthorUrl" validate:"omitempty,max=2048"`
}

type analyzeResp struct {
	Count      int      `json:"count"`
	InsightIDs []string `json:"insightIds"`
}

func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	req.SourceURL = blankToNil(req.SourceURL)
	req.SourceType = blankToNil(req.SourceType)
	req.ModAuthorURL = blankToNil(req.ModAuthorURL)
	if err := h.Validator.Validate(req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}

	in := analyze.Input{
		Text:         req.Text,
		SourceURL:    req.SourceURL,
		ModAuthorURL: req.ModAuthorURL,
	}
	if req.SourceType != nil {
		st := insight.SourceType(*req.SourceType)
		in.SourceType = &st
	}

	res, err := h.Analyzer.Analyze(r.Context(), in)
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	response.OK(w, analyzeResp{Count: res.Count, InsightIDs: res.InsightIDs}, h.Log)
}
