package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	adminapp "github.com/hsuanlin/tainan-eats-services/api/internal/admin/application"
	"github.com/hsuanlin/tainan-eats-services/api/internal/config"
	mongodoc "github.com/hsuanlin/tainan-eats-services/api/internal/infrastructure/mongo"
	adminhttp "github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/admin"
	bothttp "github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/bot"
	commonhttp "github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
	publichttp "github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/public"
	"github.com/hsuanlin/tainan-eats-services/api/internal/places"
	publicapp "github.com/hsuanlin/tainan-eats-services/api/internal/public/application"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
	"github.com/hsuanlin/tainan-eats-services/api/internal/search"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Server 管理 HTTP 伺服器的生命週期，並將各應用服務注入 Public/Admin/Bot 處理器。
// 屬於 DDD 的 Interface 層，負責把應用服務接上路由。
type Server struct {
	logger               *log.Logger
	client               *mongo.Client
	database             *mongo.Database
	location             *time.Location
	storeQueryService    publicapp.StoreQueryService
	searchService        *search.Service
	selector             *recommend.Selector
	filter               recommend.Filter
	placesClient         *places.Client
	adminStoreService    adminapp.StoreService
	jwtConfigs           []config.JWTConfig
	jwtAudience          string
	httpClient           *http.Client
	messengerEndpoint    string
	messengerDestination string
	defaultCity          string
	addr                 string
	allowedOrigins       []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run 啟動 HTTP 伺服器並組裝 Public/Admin/Bot 的路由與中介層。
// 這裡只做基礎設施初始化，不放任何領域邏輯。
func (s *Server) Run() error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:       s.logger,
		StoreQueries: s.storeQueryService,
		Search:       s.searchService,
		Selector:     s.selector,
		Filter:       s.filter,
		Places:       s.placesClient,
		Location:     s.location,
		DefaultCity:  s.defaultCity,
	})
	publicHandler.Register(router)

	botHandler := bothttp.NewHandler(bothttp.Config{
		Logger:               s.logger,
		StoreQueries:         s.storeQueryService,
		Selector:             s.selector,
		Filter:               s.filter,
		HTTPClient:           s.httpClient,
		MessengerEndpoint:    s.messengerEndpoint,
		MessengerDestination: s.messengerDestination,
		DefaultCity:          s.defaultCity,
	})
	router.Route("/bot", botHandler.Register)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:       s.logger,
		StoreService: s.adminStoreService,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP 伺服器啟動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// normaliseBaseURL 修剪輸入字串並移除結尾斜線。
func normaliseBaseURL(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.TrimRight(trimmed, "/")
}

// withCORS 依允許的 Origin 清單加上 CORS 標頭。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed 判斷指定 Origin 是否在允許清單內。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler 檢查 MongoDB 連線狀態，提供監控系統的健康檢查。
// 只回報基礎設施狀態，不涉及領域狀態。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// authMiddleware 從 Authorization 標頭驗證 JWT，並把已驗證的使用者放入 context。
// Admin 路由共用此中介層。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "缺少 Authorization 標頭"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "請使用 Bearer token"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "存取權杖為空"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		user := authenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
			Picture:  claims.Picture,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken 依序嘗試多組 JWT 設定，檢查簽章與 Issuer/Audience。
// 全部不符時回傳認證錯誤。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("尚未設定認證資訊")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("存取權杖無效")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	Picture           string `json:"picture,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// writeJSON 是 JSON 回應的共用寫入處理。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON 編碼失敗: %v", err)
	}
}

// shutdown 以逾時方式中斷 MongoDB 連線，避免程序結束時資源外洩。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 中斷連線時發生錯誤: %v", err)
	}
}

// waitForShutdown 監聽 ListenAndServe 的結束與 OS 訊號，完成 graceful shutdown。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("伺服器異常終止: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("收到訊號 %s，開始停止伺服器。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("伺服器停止時發生錯誤: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New 接收 Config 與 Mongo client，組裝應用服務與處理器後回傳 Server。
// 作為依賴解析的起點。
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("CST", 8*60*60)
		cfg.ServerLog.Printf("讀取時區 %s 失敗: %v，改用台北時間", cfg.Timezone, err)
	}

	endpoint := normaliseBaseURL(cfg.MessengerEndpoint)
	if endpoint == "" {
		endpoint = "http://messenger-gateway:3000"
	}

	srv := &Server{
		logger:               cfg.ServerLog,
		client:               client,
		database:             client.Database(cfg.MongoDatabase),
		location:             loc,
		jwtConfigs:           append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:          cfg.JWTAudience,
		httpClient:           &http.Client{Timeout: cfg.MessengerTimeout},
		messengerEndpoint:    endpoint,
		messengerDestination: cfg.MessengerDestination,
		defaultCity:          cfg.DefaultCity,
		addr:                 cfg.Addr,
		allowedOrigins:       append([]string(nil), cfg.AllowedOrigins...),
	}

	storeRepo := mongodoc.NewStoreRepository(srv.database, cfg.StoreCollection)
	srv.storeQueryService = publicapp.NewStoreQueryService(storeRepo)
	srv.searchService = search.NewService(storeRepo, commonhttp.IsKnownDistrict)

	adminStoreRepo := mongodoc.NewAdminStoreRepository(srv.database, cfg.StoreCollection)
	srv.adminStoreService = adminapp.NewStoreService(adminStoreRepo)

	srv.filter = recommend.Filter{DefaultCity: cfg.DefaultCity}

	var enricher recommend.Enricher
	if cfg.MapsAPIKey != "" {
		placesClient, err := places.New(cfg.MapsAPIKey, cfg.PlacesRatePerSecond, cfg.ServerLog)
		if err != nil {
			cfg.ServerLog.Printf("Google Maps client 初始化失敗: %v，推薦結果將不附店家詳細資訊", err)
		} else {
			srv.placesClient = placesClient
			enricher = placesClient
		}
	} else {
		cfg.ServerLog.Printf("未設定 GOOGLE_MAPS_API_KEY，推薦結果將不附店家詳細資訊")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	srv.selector = recommend.NewSelector(enricher, rng, cfg.ServerLog)

	return srv
}
