package public

import (
	"log"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hsuanlin/tainan-eats-services/api/internal/places"
	publicapp "github.com/hsuanlin/tainan-eats-services/api/internal/public/application"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
	"github.com/hsuanlin/tainan-eats-services/api/internal/search"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger       *log.Logger
	storeQueries publicapp.StoreQueryService
	search       *search.Service
	selector     *recommend.Selector
	filter       recommend.Filter
	places       *places.Client
	location     *time.Location
	defaultCity  string
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger       *log.Logger
	StoreQueries publicapp.StoreQueryService
	Search       *search.Service
	Selector     *recommend.Selector
	Filter       recommend.Filter
	// Places may be nil when no Google Maps API key is configured.
	Places      *places.Client
	Location    *time.Location
	DefaultCity string
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:       cfg.Logger,
		storeQueries: cfg.StoreQueries,
		search:       cfg.Search,
		selector:     cfg.Selector,
		filter:       cfg.Filter,
		places:       cfg.Places,
		location:     cfg.Location,
		defaultCity:  cfg.DefaultCity,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stores", h.storeListHandler())
	r.Get("/stores/{id}", h.storeDetailHandler())
	r.Get("/search", h.searchHandler())
	r.Get("/recommendations", h.recommendHandler())
	r.Get("/recommendations/nearby", h.recommendNearbyHandler())
}
