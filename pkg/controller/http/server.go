package http

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
	"github.com/secmon-lab/riskmatrix/pkg/utils/metrics"
)

type Server struct {
	router  *chi.Mux
	uc      *usecase.UseCases
	metrics *metrics.Metrics
	sentry  bool
}

type Options func(*Server)

// WithMetrics serves m on /metrics
func WithMetrics(m *metrics.Metrics) Options {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithSentry attaches a Sentry hub to every request and reports panics
func WithSentry(enabled bool) Options {
	return func(s *Server) {
		s.sentry = enabled
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	r.Get("/healthz", healthHandler())
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/config/scoring", scoringConfigHandler(uc.Scoring))

		r.Route("/scoring", func(r chi.Router) {
			r.Post("/classify", classifyHandler(uc.Scoring))
			r.Post("/residual", residualHandler(uc.Scoring))
			r.Post("/probability", probabilityHandler(uc.Scoring))
		})

		r.Route("/org-units", func(r chi.Router) {
			r.Get("/", listOrgUnitsHandler(uc.OrgUnit))
			r.Post("/", createOrgUnitHandler(uc.OrgUnit))
			r.Get("/{id}", getOrgUnitHandler(uc.OrgUnit))
			r.Put("/{id}", updateOrgUnitHandler(uc.OrgUnit))
			r.Delete("/{id}", deleteOrgUnitHandler(uc.OrgUnit))
		})

		r.Route("/controls", func(r chi.Router) {
			r.Get("/", listControlsHandler(uc.Control))
			r.Post("/", createControlHandler(uc.Control))
			r.Get("/{id}", getControlHandler(uc.Control))
			r.Put("/{id}", updateControlHandler(uc.Control))
			r.Delete("/{id}", deleteControlHandler(uc.Control))
		})

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", listRisksHandler(uc.Risk))
			r.Post("/", createRiskHandler(uc.Risk))
			r.Get("/{id}", getRiskHandler(uc.Risk))
			r.Put("/{id}", updateRiskHandler(uc.Risk))
			r.Delete("/{id}", deleteRiskHandler(uc.Risk))
			r.Get("/{id}/assessment", assessRiskHandler(uc.Risk))
		})
		r.Get("/assessments", listAssessmentsHandler(uc.Risk))
		r.Get("/heatmap", heatmapHandler(uc.Heatmap))

		r.Route("/action-plans", func(r chi.Router) {
			r.Get("/", listActionPlansHandler(uc.ActionPlan))
			r.Post("/", createActionPlanHandler(uc.ActionPlan))
			r.Get("/{id}", getActionPlanHandler(uc.ActionPlan))
			r.Put("/{id}", updateActionPlanHandler(uc.ActionPlan))
			r.Delete("/{id}", deleteActionPlanHandler(uc.ActionPlan))
			r.Post("/{id}/status", transitionActionPlanHandler(uc.ActionPlan))
			r.Post("/{id}/evidence", uploadEvidenceHandler(uc.ActionPlan))
			r.Get("/{id}/evidence/{evidenceID}", downloadEvidenceHandler(uc.ActionPlan))
			r.Post("/{id}/evidence/{evidenceID}/review", reviewEvidenceHandler(uc.ActionPlan))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
