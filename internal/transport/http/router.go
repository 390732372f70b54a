package http

import (
	"net/http"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"survey-service/internal/app"
	"survey-service/internal/metrics"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Service   *app.SurveyService
	Auth      *app.Authenticator
	Feed      *app.Feed
	Log       *zap.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	StaticDir string
}

// pages maps page routes to files under the static directory.
var pages = map[string]string{
	"/welcome": "welcome.html",
	"/survey":  "survey.html",
	"/summary": "summary.html",
	"/about":   "about.html",
	"/contact": "contact.html",
}

func NewRouter(d Deps) *http.ServeMux {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	wrap := func(route string, h http.HandlerFunc) http.HandlerFunc {
		return withObservability(log, d.Metrics, route, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	surveys := NewSurveyHandler(d.Service, log)
	mux.HandleFunc("GET /api/questions", wrap("/api/questions", surveys.Questions))
	mux.HandleFunc("POST /api/responses", wrap("/api/responses", surveys.SubmitResponses))
	mux.HandleFunc("GET /api/responses", wrap("/api/responses", surveys.RecentResponses))

	if d.Auth != nil {
		auth := NewAuthHandler(d.Auth, log)
		mux.HandleFunc("POST /api/login", wrap("/api/login", auth.Login))
	}
	if d.Feed != nil {
		feed := NewFeedHandler(d.Feed, log)
		mux.HandleFunc("GET /ws/responses", wrap("/ws/responses", feed.ServeWS))
	}

	if d.StaticDir == "" {
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("survey-service API"))
		})
		return mux
	}

	mux.HandleFunc("GET /{$}", servePage(d.StaticDir, "welcome.html"))
	for route, file := range pages {
		mux.HandleFunc("GET "+route, servePage(d.StaticDir, file))
	}
	mux.Handle("GET /", http.FileServer(http.Dir(d.StaticDir)))
	return mux
}

func servePage(dir, file string) http.HandlerFunc {
	path := filepath.Join(dir, file)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}
