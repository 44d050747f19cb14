package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
)

// Service represents a service that interacts with the hosted database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection pool.
	Close()

	Queries() *Queries
}

type service struct {
	pool *pgxpool.Pool
	q    *Queries
}

// connString builds the Supabase Postgres DSN from the environment.
func connString() string {
	username := os.Getenv("SUPABASE_DB_USERNAME")
	password := os.Getenv("SUPABASE_DB_PASSWORD")
	host := os.Getenv("SUPABASE_DB_HOST")
	port := os.Getenv("SUPABASE_DB_PORT")
	name := os.Getenv("SUPABASE_DB_DATABASE")
	if port == "" {
		port = "5432"
	}
	if name == "" {
		name = "postgres"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", username, password, host, port, name)
}

// NewService creates the pool, verifies connectivity, and returns the
// service. The initial connect is retried with capped exponential backoff so
// a briefly unreachable hosted store does not kill the process at startup.
// The returned handle is constructed once and passed down; nothing in the
// application re-initializes it.
func NewService(ctx context.Context) (Service, error) {
	var pool *pgxpool.Pool

	backoff := retry.WithMaxRetries(5, retry.NewExponential(1*time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		pool, err = pgxpool.New(ctx, connString())
		if err != nil {
			return fmt.Errorf("create connection pool: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			log.Warn().Err(err).Msg("Database not reachable yet, retrying")
			return retry.RetryableError(fmt.Errorf("ping: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	return &service{pool: pool, q: New(pool)}, nil
}

// Queries implements Service.
func (s *service) Queries() *Queries {
	return s.q
}

// Health checks the health of the database connection pool.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("db down")
		return stats
	}

	poolStats := s.pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["acquire_duration_ms"] = strconv.FormatInt(poolStats.AcquireDuration().Milliseconds(), 10)

	if poolStats.AcquiredConns() > (poolStats.MaxConns() * 8 / 10) { // 80% capacity
		stats["message"] = "The database connection pool is experiencing heavy load."
	}
	if poolStats.EmptyAcquireCount() > 0 {
		stats["message"] = "The application has tried to acquire a connection from an empty pool. Consider increasing max connections."
	}

	return stats
}

// Close closes the database connection pool.
func (s *service) Close() {
	log.Info().Msg("Disconnected from database")
	s.pool.Close()
}
