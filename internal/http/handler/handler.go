// Package handler holds the HTTP handlers. Handlers decode and validate the
// request, call one service, and map the result onto snake_case DTOs.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"feedbackboard/internal/apperr"
	"feedbackboard/internal/insight"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body").WithCause(err)
	}
	return nil
}

// blankToNil drops empty optional strings so they are stored as NULL.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

type themeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}

type tagDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ColorCode *string `json:"color_code"`
}

type insightDTO struct {
	ID                 string    `json:"id"`
	Content            string    `json:"content"`
	SourceURL          *string   `json:"source_url"`
	SourceType         *string   `json:"source_type"`
	ThemeID            string    `json:"theme_id"`
	ThemeName          *string   `json:"theme_name"`
	SuggestedThemeID   *string   `json:"suggested_theme_id"`
	SuggestedThemeName *string   `json:"suggested_theme_name"`
	CreatedAt          time.Time `json:"created_at"`
	ModAuthorURL       *string   `json:"mod_author_url"`
	ModAuthorName      *string   `json:"mod_author_name"`
	ModAuthorAvatarURL *string   `json:"mod_author_avatar_url"`
	Tags               []tagDTO  `json:"tags"`
}

func toThemeDTO(t insight.Theme) themeDTO {
	return themeDTO{ID: t.ID, Name: t.Name, OrderIndex: t.OrderIndex}
}

func toTagDTO(t insight.Tag) tagDTO {
	return tagDTO{ID: t.ID, Name: t.Name, ColorCode: t.ColorCode}
}

func toInsightDTO(in insight.Insight) insightDTO {
	out := insightDTO{
		ID:                 in.ID,
		Content:            in.Content,
		SourceURL:          in.SourceURL,
		ThemeID:            in.ThemeID,
		SuggestedThemeID:   in.SuggestedThemeID,
		CreatedAt:          in.CreatedAt,
		ModAuthorURL:       in.ModAuthorURL,
		ModAuthorName:      in.ModAuthorName,
		ModAuthorAvatarURL: in.ModAuthorAvatarURL,
		Tags:               make([]tagDTO, 0, len(in.Tags)),
	}
	if in.SourceType != nil {
		st := string(*in.SourceType)
		out.SourceType = &st
	}
	if in.Theme != nil {
		out.ThemeName = &in.Theme.Name
	}
	if in.SuggestedTheme != nil {
		out.SuggestedThemeName = &in.SuggestedTheme.Name
	}
	for _, t := range in.Tags {
		out.Tags = append(out.Tags, toTagDTO(t))
	}
	return out
}

func toInsightDTOs(ins []insight.Insight) []insightDTO {
	out := make([]insightDTO, 0, len(ins))
	for _, in := range ins {
		out = append(out, toInsightDTO(in))
	}
	return out
}
