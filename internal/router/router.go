package router

import (
	"context"
	"net/http"

	_ "pet-shop-api/docs"
	"pet-shop-api/internal/adapters/auth/bcrypt"
	"pet-shop-api/internal/adapters/auth/jwt"
	mem "pet-shop-api/internal/adapters/storage/memory"
	"pet-shop-api/internal/domain/attendants"
	"pet-shop-api/internal/domain/clients"
	"pet-shop-api/internal/domain/pets"
	"pet-shop-api/internal/middleware"
	"pet-shop-api/internal/platform/httpx"
	"pet-shop-api/internal/platform/logger"
	"pet-shop-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Repositories son los repos que usan los servicios. Si Options.Repositories es
// nil se usa el store en memoria.
type Repositories struct {
	Attendants attendants.Repository
	Clients    clients.Repository
	Pets       pets.Repository
}

// MemoryRepositories arma los tres repos sobre un mismo store en memoria.
func MemoryRepositories() *Repositories {
	s := mem.NewStore()
	return &Repositories{
		Attendants: s.Attendants(),
		Clients:    s.Clients(),
		Pets:       s.Pets(),
	}
}

type Options struct {
	Logger logger.Logger

	// Opcional: si viene, usa esos repos (Postgres). Si no, in-memory.
	Repositories *Repositories

	// Hasher default: bcrypt con costo mínimo.
	Hasher auth.PasswordHasher

	// Tokens emite y verifica JWT. Si es nil se usa un signer sin secreto:
	// login y rutas protegidas responden 500 de configuración.
	Tokens interface {
		auth.TokenIssuer
		auth.AuthVerifier
	}

	// Registry de prometheus para /metrics. Default: uno nuevo por router.
	Registry *prometheus.Registry

	// HealthCheck opcional (p.ej. ping a la DB) para /health.
	HealthCheck func(ctx context.Context) error
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	repos := opts.Repositories
	if repos == nil {
		repos = MemoryRepositories()
	}

	hasher := opts.Hasher
	if hasher == nil {
		hasher = bcrypt.NewHasher(bcrypt.MinCost)
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = jwt.NewSigner(jwt.Config{})
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics := middleware.NewHTTPMetrics(reg)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recover)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	health := healthHandler(opts.HealthCheck)
	r.Get("/", health)
	r.Get("/health", health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	gate := middleware.RequireAuth(tokens)

	// Services por módulo
	attendantsSvc := attendants.NewService(repos.Attendants, hasher, tokens)
	clientsSvc := clients.NewService(repos.Clients)
	petsSvc := pets.NewService(repos.Pets, clientsSvc, attendantsSvc)

	// Rutas por módulo
	attendants.RegisterRoutes(r, attendantsSvc, gate)
	clients.RegisterRoutes(r, clientsSvc, gate)
	pets.RegisterRoutes(r, petsSvc, gate)

	return r
}

// healthHandler godoc
// @Summary Health check
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Failure 503 {string} string "unavailable"
// @Router /health [get]
func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if check != nil {
			if err := check(r.Context()); err != nil {
				middleware.Log(r.Context()).Error("health check failed", map[string]any{"err": err})
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
