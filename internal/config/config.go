package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	StoreCollection      string
	Timeout              time.Duration
	Timezone             string
	DefaultCity          string
	ServerLog            *log.Logger
	JWTConfigs           []JWTConfig
	JWTAudience          string
	MessengerEndpoint    string
	MessengerDestination string
	MessengerTimeout     time.Duration
	AllowedOrigins       []string
	MapsAPIKey           string
	PlacesRatePerSecond  float64
}

// Load reads environment variables and returns a fully populated Config.
// 存在 .env 檔時先載入（本地開發用），環境變數優先。
func Load() Config {
	_ = godotenv.Load()

	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	messengerEndpoint := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL"))
	if messengerEndpoint == "" {
		messengerEndpoint = "http://messenger-gateway:3000"
	}

	messengerDestination := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_DESTINATION"))
	if messengerDestination == "" {
		messengerDestination = "line"
	}

	messengerTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			messengerTimeout = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_LINE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_LINE_JWT_ISSUER", "tainan-eats-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_ADMIN_JWT_ISSUER", "auth-admin"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_ADMIN_JWT_SECRET or AUTH_LINE_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	ratePerSecond := 10.0
	if raw := strings.TrimSpace(os.Getenv("PLACES_RATE_PER_SECOND")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			ratePerSecond = parsed
		}
	}

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "tainan-eats"),
		StoreCollection:      envOrDefault("STORE_COLLECTION", "stores"),
		Timeout:              timeout,
		Timezone:             envOrDefault("TIMEZONE", "Asia/Taipei"),
		DefaultCity:          envOrDefault("DEFAULT_CITY", "台南市"),
		ServerLog:            log.New(os.Stdout, "[tainan-eats-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:           jwtConfigs,
		JWTAudience:          jwtAudience,
		MessengerEndpoint:    messengerEndpoint,
		MessengerDestination: messengerDestination,
		MessengerTimeout:     messengerTimeout,
		AllowedOrigins:       allowedOrigins,
		MapsAPIKey:           strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		PlacesRatePerSecond:  ratePerSecond,
	}

	cfg.ServerLog.Printf("loaded config: defaultCity=%q messengerEndpoint=%q destination=%q", cfg.DefaultCity, messengerEndpoint, messengerDestination)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
