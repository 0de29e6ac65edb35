package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedbackboard/internal/auth"
	"feedbackboard/internal/config"
	"feedbackboard/internal/db/dbtest"
	apphttp "feedbackboard/internal/http"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/llm"
	"feedbackboard/internal/llm/llmtest"
	"feedbackboard/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "0123456789abcdef0123456789abcdef"

type env struct {
	t     *testing.T
	h     http.Handler
	db    *gorm.DB
	fake  *llmtest.Fake
	token string
}

func newEnv(t *testing.T, withLLM bool) *env {
	t.Helper()
	gdb := dbtest.Open(t)
	jwtSvc := auth.NewJWT(secret)
	token, _, err := jwtSvc.Sign("test-code")
	require.NoError(t, err)

	cfg := config.Config{
		ContextDir:      t.TempDir(),
		NexusGraphQLURL: "http://127.0.0.1:1/graphql",
		LLMMaxTokens:    1024,
	}
	fake := &llmtest.Fake{}
	var client llm.Client
	if withLLM {
		client = fake
	}
	return &env{
		t:     t,
		h:     apphttp.NewRouter(cfg, gdb, jwtSvc, client, logger.Nop()),
		db:    gdb,
		fake:  fake,
		token: token,
	}
}

func (e *env) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *env) insight(content, themeName string, suggested *string) insight.Insight {
	e.t.Helper()
	in := insight.Insight{Content: content, ThemeID: dbtest.Theme(e.t, e.db, themeName).ID, SuggestedThemeID: suggested}
	require.NoError(e.t, (&insight.Service{DB: e.db}).CreateInsight(context.Background(), &in))
	return in
}

func TestHealth(t *testing.T) {
	e := newEnv(t, true)
	e.token = ""
	rec := e.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	e := newEnv(t, true)
	e.token = ""
	for _, path := range []string{"/me", "/insights", "/tags", "/themes", "/analytics/tags"} {
		assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, path, nil).Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/analyze", map[string]any{"text": "x"}).Code)
	assert.Empty(t, e.fake.Calls())
}

func TestAccessCodeSession(t *testing.T) {
	e := newEnv(t, true)
	e.token = ""
	_, err := (&auth.Codes{DB: e.db}).Add(context.Background(), "team", "open-sesame")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/auth/validate-code", map[string]any{"code": "  "}).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/auth/validate-code", map[string]any{"code": "wrong"}).Code)

	rec := e.do(http.MethodPost, "/auth/validate-code", map[string]any{"code": " open-sesame "})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	me := httptest.NewRecorder()
	e.h.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	body := decodeBody[map[string]any](t, me)
	assert.Equal(t, true, body["authenticated"])
	assert.NotEmpty(t, body["expires_at"])

	out := e.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, out.Code)
	require.Len(t, out.Result().Cookies(), 1)
	assert.Less(t, out.Result().Cookies()[0].MaxAge, 0)
}

func TestAnalyzeEndpoint(t *testing.T) {
	e := newEnv(t, true)
	e.fake.Reply = `[{"content":"The upload UI is confusing.","suggested_theme":"Mod upload","suggested_tags":["ui"]},` +
		`{"content":"Uploads are way too slow.","suggested_theme":"Mod upload","suggested_tags":["performance"]}]`

	rec := e.do(http.MethodPost, "/analyze", map[string]any{
		"text":       "The upload UI is confusing. Uploads are way too slow.",
		"sourceUrl":  "",
		"sourceType": "discord",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[struct {
		Count      int      `json:"count"`
		InsightIDs []string `json:"insightIds"`
	}](t, rec)
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.InsightIDs, 2)
	assert.Equal(t, 1024, e.fake.Calls()[0].MaxTokens)

	list := decodeBody[[]map[string]any](t, e.do(http.MethodGet, "/insights", nil))
	require.Len(t, list, 2)
	for _, in := range list {
		assert.Equal(t, insight.DefaultThemeName, in["theme_name"])
		assert.Equal(t, "Mod upload", in["suggested_theme_name"])
		assert.Equal(t, "discord", in["source_type"])
		assert.Nil(t, in["source_url"])
	}
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		e := newEnv(t, true)
		assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/analyze", "{").Code)
	})
	t.Run("missing text", func(t *testing.T) {
		e := newEnv(t, true)
		rec := e.do(http.MethodPost, "/analyze", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody[map[string]any](t, rec)["error"], `"text"`)
		assert.Empty(t, e.fake.Calls())
	})
	t.Run("bad source type", func(t *testing.T) {
		e := newEnv(t, true)
		rec := e.do(http.MethodPost, "/analyze", map[string]any{"text": "x", "sourceType": "twitter"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, e.fake.Calls())
	})
	t.Run("no credential", func(t *testing.T) {
		e := newEnv(t, false)
		rec := e.do(http.MethodPost, "/analyze", map[string]any{"text": "x"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "CONFIG", decodeBody[map[string]any](t, rec)["code"])
	})
	t.Run("malformed reply", func(t *testing.T) {
		e := newEnv(t, true)
		e.fake.Reply = "not json"
		rec := e.do(http.MethodPost, "/analyze", map[string]any{"text": "x"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "LLM_RESPONSE", body["code"])
		assert.Equal(t, map[string]any{"raw": "not json"}, body["details"])

		var n int64
		require.NoError(t, e.db.Model(&insight.Insight{}).Count(&n).Error)
		assert.Zero(t, n)
	})
}

func TestAskEndpoint(t *testing.T) {
	e := newEnv(t, true)
	e.fake.Reply = "Installs are slow according to one insight."
	match := e.insight("Install speed is terrible", "Mod installation", nil)
	e.insight("Upload form is confusing", "Mod upload", nil)

	rec := e.do(http.MethodPost, "/ask", map[string]any{"question": "what do people say about install speed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[struct {
		Answer  string           `json:"answer"`
		Sources []map[string]any `json:"sources"`
	}](t, rec)
	assert.Equal(t, "Installs are slow according to one insight.", body.Answer)
	require.Len(t, body.Sources, 1)
	assert.Equal(t, match.ID, body.Sources[0]["id"])
	assert.Equal(t, "Mod installation", body.Sources[0]["theme_name"])

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/ask", map[string]any{"question": " "}).Code)
}

func TestMoveInsight(t *testing.T) {
	e := newEnv(t, true)
	upload := dbtest.Theme(t, e.db, "Mod upload")
	in := e.insight("Uploads are slow", insight.DefaultThemeName, &upload.ID)
	community := dbtest.Theme(t, e.db, "Community")

	rec := e.do(http.MethodPatch, "/insights/"+in.ID, map[string]any{"theme_id": community.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, community.ID, body["theme_id"])
	assert.Nil(t, body["suggested_theme_id"])

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, "/insights/"+in.ID, map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, "/insights/"+in.ID, map[string]any{"theme_id": "not-a-theme"}).Code)
	assert.Equal(t, http.StatusNotFound,
		e.do(http.MethodPatch, "/insights/7d0d8f43-7c39-4f1e-9b7e-2b1f3c1d9a10", map[string]any{"theme_id": community.ID}).Code)

	filtered := decodeBody[[]map[string]any](t, e.do(http.MethodGet, "/insights?theme_id="+community.ID, nil))
	require.Len(t, filtered, 1)
	assert.Equal(t, in.ID, filtered[0]["id"])

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/insights?theme_id=community", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/insights?tag_id=ui", nil).Code)
}

func TestTagsAndAnalytics(t *testing.T) {
	e := newEnv(t, true)
	in := e.insight("Search filters are great", "Mod Browsing", nil)
	browsing := dbtest.Theme(t, e.db, "Mod Browsing")

	rec := e.do(http.MethodPost, "/tags", map[string]any{"name": "  Search ", "color_code": "#ff0000"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tag := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "search", tag["name"])
	tagID := tag["id"].(string)

	dup := e.do(http.MethodPost, "/tags", map[string]any{"name": "SEARCH"})
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, "A tag with this name already exists.", decodeBody[map[string]any](t, dup)["error"])
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/tags", map[string]any{"name": "x", "color_code": "red"}).Code)

	for i := 0; i < 2; i++ {
		rec = e.do(http.MethodPost, "/insights/"+in.ID+"/tags", map[string]any{"tag_id": tagID})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	withTag := decodeBody[map[string]any](t, rec)
	assert.Len(t, withTag["tags"], 1)

	byTag := decodeBody[[]map[string]any](t, e.do(http.MethodGet, "/insights?tag_id="+tagID, nil))
	require.Len(t, byTag, 1)

	counts := decodeBody[[]map[string]any](t, e.do(http.MethodGet, "/analytics/tags", nil))
	require.Len(t, counts, 1)
	assert.EqualValues(t, 1, counts[0]["count_all"])
	byTheme := counts[0]["count_by_theme"].(map[string]any)
	assert.Len(t, byTheme, 7)
	assert.EqualValues(t, 1, byTheme[browsing.ID])

	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/insights/"+in.ID+"/tags/"+tagID, nil).Code)
	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/tags/"+tagID, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/tags/"+tagID, nil).Code)
	assert.Empty(t, decodeBody[[]map[string]any](t, e.do(http.MethodGet, "/tags", nil)))
}

func TestThemesAndDelete(t *testing.T) {
	e := newEnv(t, true)
	themes := decodeBody[[]map[string]any](t, e.do(http.MethodGet, "/themes", nil))
	require.Len(t, themes, 7)
	assert.Equal(t, insight.DefaultThemeName, themes[0]["name"])

	in := e.insight("Premium downloads are fast", "Nexus premium", nil)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/insights/"+in.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/insights/"+in.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/insights/"+in.ID, nil).Code)
}
