package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	strutil "careline/pkg/platform/strings"
)

// Config captures everything main needs to wire the service. Values come from
// the environment so deployments stay twelve-factor.
type Config struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	KafkaTopic    string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	UploadDir     string
	MaxUploadSize int64
}

// DefaultMaxUploadSize caps a single attachment at 15 MiB, matching the
// intake form limit.
const DefaultMaxUploadSize = 15 << 20

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("CARELINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	uploadDir := os.Getenv("CARELINE_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	maxUpload := int64(DefaultMaxUploadSize)
	if v := os.Getenv("CARELINE_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxUpload = n
		}
	}

	tokenTTL := 12 * time.Hour
	if v := os.Getenv("CARELINE_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			tokenTTL = d
		}
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strutil.DedupeAndTrim(strings.Split(v, ","))
	}
	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "careline.complaint.events"
	}

	return Config{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     "careline",
		TokenTTL:      tokenTTL,
		UploadDir:     uploadDir,
		MaxUploadSize: maxUpload,
	}
}
