package bot

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	publicapp "github.com/hsuanlin/tainan-eats-services/api/internal/public/application"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
)

// Handler 接收聊天機器人 gateway 的 webhook 並回覆推薦結果。
type Handler struct {
	logger               *log.Logger
	storeQueries         publicapp.StoreQueryService
	selector             *recommend.Selector
	filter               recommend.Filter
	httpClient           *http.Client
	messengerEndpoint    string
	messengerDestination string
	defaultCity          string
}

// Config provides dependencies for Handler.
type Config struct {
	Logger               *log.Logger
	StoreQueries         publicapp.StoreQueryService
	Selector             *recommend.Selector
	Filter               recommend.Filter
	HTTPClient           *http.Client
	MessengerEndpoint    string
	MessengerDestination string
	DefaultCity          string
}

// NewHandler constructs the bot webhook handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:               cfg.Logger,
		storeQueries:         cfg.StoreQueries,
		selector:             cfg.Selector,
		filter:               cfg.Filter,
		httpClient:           cfg.HTTPClient,
		messengerEndpoint:    cfg.MessengerEndpoint,
		messengerDestination: cfg.MessengerDestination,
		defaultCity:          cfg.DefaultCity,
	}
}

// Register mounts bot routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/webhook", h.webhookHandler())
}
