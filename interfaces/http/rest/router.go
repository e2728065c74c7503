// Package rest wires the HTTP surface of the writing pipeline.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/interfaces/http/rest/handlers"
	"github.com/komi0929/pen-sub000/interfaces/http/rest/middleware"
	"github.com/komi0929/pen-sub000/internal/repository"
	"github.com/komi0929/pen-sub000/internal/service/article"
	"github.com/komi0929/pen-sub000/internal/service/interview"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	"github.com/komi0929/pen-sub000/internal/service/theme"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	"github.com/komi0929/pen-sub000/pkg/auth"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

// Router builds the HTTP handler from the service layer.
type Router struct {
	repo      repository.Repository
	engine    *writer.Engine
	prompts   *prompt.Store
	conductor *interview.Conductor
	articles  *article.Service
	themes    *theme.Service
	tokens    *auth.Service
	metrics   *observability.Collector
	logger    *zap.Logger
	origins   []string
}

// NewRouter creates a router over the assembled services.
func NewRouter(
	repo repository.Repository,
	engine *writer.Engine,
	prompts *prompt.Store,
	conductor *interview.Conductor,
	articles *article.Service,
	themes *theme.Service,
	tokens *auth.Service,
	metrics *observability.Collector,
	logger *zap.Logger,
	origins []string,
) *Router {
	return &Router{
		repo:      repo,
		engine:    engine,
		prompts:   prompts,
		conductor: conductor,
		articles:  articles,
		themes:    themes,
		tokens:    tokens,
		metrics:   metrics,
		logger:    logger,
		origins:   origins,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.tokens))

		// Stateless generation endpoints: interview context rides in the body.
		generationHandler := handlers.NewGenerationHandler(rt.engine, rt.prompts, rt.articles, rt.repo, rt.logger)
		r.Post("/interview-turn", generationHandler.InterviewTurn)
		r.Post("/generate-article", generationHandler.GenerateArticle)
		r.Post("/rewrite-article", generationHandler.RewriteArticle)

		themeHandler := handlers.NewThemeHandler(rt.themes, rt.logger)
		interviewHandler := handlers.NewInterviewHandler(rt.conductor, rt.logger)
		articleHandler := handlers.NewArticleHandler(rt.articles, rt.logger)
		r.Route("/themes", func(r chi.Router) {
			r.Post("/", themeHandler.Create)
			r.Get("/", themeHandler.List)
			r.Get("/{themeID}", themeHandler.Get)
			r.Put("/{themeID}", themeHandler.Update)
			r.Delete("/{themeID}", themeHandler.Delete)

			r.Post("/{themeID}/memos", themeHandler.AddMemo)
			r.Get("/{themeID}/memos", themeHandler.ListMemos)

			r.Post("/{themeID}/interviews", interviewHandler.Start)
			r.Get("/{themeID}/articles", articleHandler.ListByTheme)
		})
		r.Delete("/memos/{memoID}", themeHandler.DeleteMemo)

		r.Route("/interviews", func(r chi.Router) {
			r.Get("/{interviewID}", interviewHandler.Get)
			r.Post("/{interviewID}/answer", interviewHandler.Answer)
			r.Post("/{interviewID}/skip", interviewHandler.Skip)
			r.Post("/{interviewID}/complete", interviewHandler.Complete)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/{articleID}", articleHandler.Get)
			r.Put("/{articleID}", articleHandler.Update)
			r.Get("/{articleID}/history", articleHandler.History)
			r.Post("/{articleID}/restore/{historyID}", articleHandler.Restore)
		})

		styleHandler := handlers.NewStyleHandler(rt.themes, rt.logger)
		r.Route("/style-references", func(r chi.Router) {
			r.Post("/", styleHandler.Create)
			r.Get("/", styleHandler.List)
			r.Post("/{refID}/default", styleHandler.SetDefault)
			r.Delete("/{refID}", styleHandler.Delete)
		})

		promptHandler := handlers.NewPromptHandler(rt.prompts, rt.logger)
		r.Route("/prompt-versions", func(r chi.Router) {
			r.Get("/{category}", promptHandler.ListVersions)
			r.Post("/{category}/current", promptHandler.SetCurrent)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
