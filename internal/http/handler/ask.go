package handler

import (
	"net/http"

	"feedbackboard/internal/ask"
	"feedbackboard/internal/http/response"
	"feedbackboard/internal/logger"
)

type AskHandler struct {
	Answerer *ask.Answerer
	Log      *logger.Logger
}

type askReq struct {
	Question string `json:"question"`
}

type askResp struct {
	Answer  string       `json:"answer"`
	Sources []insightDTO `json:"sources"`
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askReq
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err, h.Log)
		return
	}

	res, err := h.Answerer.Ask(r.Context(), req.Question)
	if err != nil {
		response.HandleError(w, err, h.Log)
		return
	}
	response.OK(w, askResp{Answer: res.Answer, Sources: toInsightDTOs(res.Sources)}, h.Log)
}
