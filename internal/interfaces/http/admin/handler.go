package admin

import (
	"log"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/hsuanlin/tainan-eats-services/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger       *log.Logger
	storeService adminapp.StoreService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger       *log.Logger
	StoreService adminapp.StoreService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:       cfg.Logger,
		storeService: cfg.StoreService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stores", h.storeSearchHandler())
	r.Get("/stores/{id}", h.storeDetailHandler())
	r.Post("/stores", h.storeCreateHandler())
	r.Put("/stores/{id}", h.storeUpdateHandler())
	r.Delete("/stores/{id}", h.storeDeleteHandler())
}
