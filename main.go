package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/example/taskward/modules/api"
	authmod "github.com/example/taskward/modules/auth"
	cachemod "github.com/example/taskward/modules/cache"
	taskmod "github.com/example/taskward/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	dbPath := getEnv("DB_PATH", "taskward.db")
	httpPort := getEnvInt("HTTP_PORT", 3000)
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	cachePrefix := getEnv("CACHE_PREFIX", "taskward:")

	log.Println("=== taskward ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Redis: %s", redisAddr)

	cacheModule := cachemod.NewModule(redisAddr, cachePrefix, cacheTTL)
	authModule := authmod.NewModule(dbPath)
	taskModule := taskmod.NewModule(dbPath)
	apiModule := apimod.NewModule(httpPort)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: independent modules first, then dependent modules
	app.Register(cacheModule)
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// The stats cache connects during startup and is attached afterwards;
	// task reads fall back to the database until it is wired.
	taskModule.SetCache(cacheModule.GetCache())

	printStartupInfo(httpPort)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/register   - Register a new user")
	log.Println("  POST   /api/auth/login      - Login and get tokens")
	log.Println("  POST   /api/auth/refresh    - Refresh access token")
	log.Println("  GET    /health              - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/auth/profile    - Get current user profile")
	log.Println("  PUT    /api/auth/profile    - Update name/bio")
	log.Println("  POST   /api/tasks           - Create a task")
	log.Println("  GET    /api/tasks           - List tasks (status/priority/search filters)")
	log.Println("  GET    /api/tasks/stats     - Per-status task counts")
	log.Println("  GET    /api/tasks/:id       - Get one task")
	log.Println("  PUT    /api/tasks/:id       - Update a task (partial fields)")
	log.Println("  DELETE /api/tasks/:id       - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
