package wire

import (
	"net/http"
	"strings"

	"travel-marketplace/internal/adaptor"
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/broker"
	"travel-marketplace/pkg/middleware"
	"travel-marketplace/pkg/storage"
	"travel-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Deps are the outside resources the app is built on. Redis may be nil.
type Deps struct {
	Repo   *repository.Repository
	Events broker.Publisher
	Store  storage.Store
	Redis  *redis.Client
}

// guards are the per-route middlewares shared by every wire function.
type guards struct {
	auth     func(http.Handler) http.Handler
	optional func(http.Handler) http.Handler
	limit    func(http.Handler) http.Handler
}

// Wiring builds services, handlers and the router.
func Wiring(deps Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Events, deps.Store, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	g := guards{
		auth:     middleware.AuthSession(service.Auth, service.Role, logger),
		optional: middleware.OptionalSession(service.Auth, service.Role, logger),
		limit:    middleware.RateLimit(config.RateLimit, deps.Redis, logger),
	}

	return &App{
		Router:  setupRouter(handler, g, config, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, g guards, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(config.App.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if config.App.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.App.RequestTimeout))
	}

	wireAuth(r, handler.Auth, g)
	wirePackage(r, handler.Package, g)
	wireAdmin(r, handler.Admin, handler.Dashboard, g)
	wireSeller(r, handler.Package, handler.Dashboard, g)
	wireBooking(r, handler.Booking, g)
	wireReview(r, handler.Review, g)
	wireUpload(r, handler.Upload, g, config.Upload)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}

// allowedOrigins accepts both repeated values and a single comma separated value.
func allowedOrigins(configured []string) []string {
	var origins []string
	for _, v := range configured {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
