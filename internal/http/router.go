package http

import (
	"net/http"

	"feedbackboard/internal/analyze"
	"feedbackboard/internal/ask"
	"feedbackboard/internal/auth"
	"feedbackboard/internal/config"
	"feedbackboard/internal/contextbank"
	"feedbackboard/internal/http/handler"
	mw "feedbackboard/internal/http/middleware"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/llm"
	"feedbackboard/internal/logger"
	"feedbackboard/internal/nexus"
	"feedbackboard/internal/validation"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// NewRouter wires every route. llmClient may be nil: analyze and ask then fail
// with a configuration error.
func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, llmClient llm.Client, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	v := validation.New()
	svc := &insight.Service{DB: db}
	bank := contextbank.Loader{Dir: cfg.ContextDir}

	ah := &handler.AuthHandler{Codes: &auth.Codes{DB: db}, JWT: jwtSvc, CookieSecure: cfg.CookieSecure, Log: log}
	r.Post("/auth/validate-code", ah.ValidateCode)
	r.Post("/auth/logout", ah.Logout)

	analyzeH := &handler.AnalyzeHandler{
		Analyzer: &analyze.Analyzer{
			Insights:  svc,
			LLM:       llmClient,
			Bank:      bank,
			Authors:   nexus.NewClient(cfg.NexusGraphQLURL),
			Log:       log.With("component", "analyze"),
			MaxTokens: cfg.LLMMaxTokens,
		},
		Validator: v,
		Log:       log,
	}
	askH := &handler.AskHandler{
		Answerer: &ask.Answerer{
			Insights:  svc,
			LLM:       llmClient,
			Bank:      bank,
			Log:       log.With("component", "ask"),
			MaxTokens: cfg.LLMMaxTokens,
		},
		Log: log,
	}
	me := &handler.MeHandler{Log: log}
	insightH := &handler.InsightHandler{Svc: svc, Validator: v, Log: log}
	tagH := &handler.TagHandler{Svc: svc, Validator: v, Log: log}
	themeH := &handler.ThemeHandler{Svc: svc, Log: log}
	analyticsH := &handler.AnalyticsHandler{Svc: svc, Log: log}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/me", me.Me)
		r.Post("/analyze", analyzeH.Analyze)
		r.Post("/ask", askH.Ask)
		r.Get("/themes", themeH.List)
		r.Get("/analytics/tags", analyticsH.TagFrequency)

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", insightH.List)
			r.Get("/{id}", insightH.Get)
			r.Patch("/{id}", insightH.Move)
			r.Delete("/{id}", insightH.Delete)
			r.Post("/{id}/tags", insightH.AttachTag)
			r.Delete("/{id}/tags/{tagID}", insightH.DetachTag)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagH.List)
			r.Post("/", tagH.Create)
			r.Delete("/{id}", tagH.Delete)
		})
	})

	return r
}
