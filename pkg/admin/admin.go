package admin

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foodgram-ops/foodgate/pkg/route"
	"github.com/foodgram-ops/foodgate/pkg/serializer"
)

// Options configures the admin surface.
type Options struct {
	// Name and Version identify the gateway in responses.
	Name    string
	Version string

	// Ready reports whether the data plane is accepting traffic.
	Ready func() bool

	// Routes returns the live routing table.
	Routes func() []route.Rule

	// AllowedOrigins for CORS on the admin endpoints. Empty disables CORS.
	AllowedOrigins []string
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}

// routesResponse is the payload of GET /v1/routes.
type routesResponse struct {
	Name      string       `json:"name"`
	Version   string       `json:"version"`
	Timestamp time.Time    `json:"timestamp"`
	Routes    []route.Rule `json:"routes"`
}

// NewHandler builds the admin router: health, readiness, Prometheus
// metrics, and the live routing table.
func NewHandler(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		serializer.RespondJSON(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
		})
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready != nil && !opts.Ready() {
			serializer.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:    "not_ready",
				Timestamp: time.Now(),
				Reason:    "gateway is initializing or shutting down",
			})
			return
		}
		serializer.RespondJSON(w, http.StatusOK, HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/v1/routes", func(w http.ResponseWriter, _ *http.Request) {
		var rules []route.Rule
		if opts.Routes != nil {
			rules = opts.Routes()
		}
		serializer.RespondJSON(w, http.StatusOK, routesResponse{
			Name:      opts.Name,
			Version:   opts.Version,
			Timestamp: time.Now().UTC(),
			Routes:    rules,
		})
	})

	return r
}
