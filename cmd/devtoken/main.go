// Command devtoken signs a bearer token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pharmacy-payments/internal/auth"
	"github.com/anyulbade/pharmacy-payments/internal/config"
)

func main() {
	var (
		tenant string
		user   string
		ttl    time.Duration
	)
	flag.StringVar(&tenant, "tenant", "", "Tenant (pharmacy) UUID; random when empty")
	flag.StringVar(&user, "user", "", "User UUID; random when empty")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default JWT_TTL)")
	flag.Parse()

	_ = godotenv.Load()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()
	if ttl == 0 {
		ttl = cfg.JWTTTL
	}

	id := auth.Identity{TenantID: parseOrNew(tenant, "tenant"), UserID: parseOrNew(user, "user")}
	token, expires, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, ttl).Issue(id)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}

	log.Info().
		Str("tenant_id", id.TenantID.String()).
		Str("user_id", id.UserID.String()).
		Time("expires_at", expires).
		Msg("token issued")
	fmt.Println(token)
}

func parseOrNew(raw, name string) uuid.UUID {
	if raw == "" {
		return uuid.New()
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Fatal().Err(err).Str(name, raw).Msg("invalid uuid")
	}
	return id
}
