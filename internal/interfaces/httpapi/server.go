package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/kleium/casters-tool/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept"},
		MaxAge:         600,
	}))

	r.Get("/healthz", handler.Healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/seasons/{year}/events", handler.ListSeasonEvents)

		r.Route("/events/{eventKey}", func(r chi.Router) {
			r.Get("/", handler.GetEventInfo)
			r.Get("/teams", handler.ListEventTeams)
			r.Get("/summary", handler.GetEventSummary)
			r.Get("/summary/stats", handler.RefreshEventSummaryStats)
			r.Get("/connections", handler.ListEventConnections)
			r.Get("/compare", handler.CompareEventTeams)
			r.Get("/matches", handler.ListEventMatches)
			r.Get("/playoffs", handler.GetEventPlayoffs)
			r.Get("/alliances", handler.ListEventAlliances)
			r.Get("/history", handler.GetEventHistory)
			r.Get("/scores", handler.ListEventScores)
			r.Post("/refresh-rankings", handler.RefreshEventRankings)
			r.Post("/snapshot", handler.SaveEventSnapshot)
			r.Get("/snapshot", handler.GetEventSnapshot)
			r.Delete("/snapshot", handler.DeleteEventSnapshot)
		})

		r.Get("/snapshots", handler.ListSnapshots)
		r.Get("/matches/{matchKey}/breakdown", handler.GetMatchBreakdown)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/awards-summary", handler.GetTeamAwardsSummary)
			r.Get("/{teamNumber}/stats", handler.GetTeamStats)
			r.Get("/{teamA}/head-to-head/{teamB}", handler.GetHeadToHead)
		})

		r.Get("/regions", handler.ListRegions)
		r.Get("/regions/{region}/facts", handler.GetRegionFacts)
	})

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, r)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
