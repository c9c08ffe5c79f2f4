package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	useradmin "github.com/goliatone/go-useradmin"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	ctx := context.Background()

	cfg := useradmin.NewConfigFromEnv()
	if cfg.GetSigningKey() == "" {
		log.Fatal("AUTH_SIGNING_KEY is required")
	}

	repos, err := withPersistence(ctx)
	if err != nil {
		log.Fatal(err)
	}
	repos.MustValidate()

	auther := useradmin.NewAuthenticator(repos, cfg)

	mailer := buildMailer()
	clientHost := getEnv("CLIENT_APP_HOST", "http://localhost:3000")
	creator := useradmin.NewCreateUserHandler(repos, mailer, clientHost)

	errorHandler := useradmin.NewHTTPErrorHandler(nil)
	protected := useradmin.NewProtectedRoute(cfg, repos, auther.TokenService(), errorHandler)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	api := srv.Router().Group("/")

	authController := useradmin.NewAuthController(auther,
		useradmin.WithAuthContextKey(cfg.GetContextKey()),
	)
	authController.RegisterRoutes(api, protected)

	usersController := useradmin.NewUsersController(repos, creator,
		useradmin.WithUsersContextKey(cfg.GetContextKey()),
	)
	usersController.RegisterRoutes(api, protected)

	go func() {
		if err := srv.Serve(getEnv("HTTP_ADDR", ":8080")); err != nil {
			log.Fatal(err)
		}
	}()

	waitExitSignal()
}

func withPersistence(ctx context.Context) (useradmin.RepositoryManager, error) {
	db, err := sql.Open(sqliteshim.ShimName, getEnv("DATABASE_DSN", "file:useradmin.db?cache=shared"))
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*useradmin.User)(nil))
	persistence.RegisterModel((*useradmin.Role)(nil))

	client, err := persistence.New(persistenceConfig{}, db, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	migrationsFS, err := fs.Sub(useradmin.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	if getEnv("SEED_FIXTURES", "") != "" {
		client.RegisterFixtures(useradmin.GetFixturesFS())
		if err := client.Seed(ctx); err != nil {
			return nil, err
		}
	}

	return useradmin.NewRepositoryManager(client.DB()), nil
}

func buildMailer() useradmin.Mailer {
	host := getEnv("SMTP_HOST", "")
	if host == "" {
		return useradmin.PrintMailer{}
	}

	port, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	return useradmin.NewSMTPMailer(useradmin.SMTPConfig{
		Host:     host,
		Port:     port,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@example.com"),
	})
}

type persistenceConfig struct{}

func (persistenceConfig) GetDebug() bool                { return getEnv("DATABASE_DEBUG", "") != "" }
func (persistenceConfig) GetDriver() string             { return "sqlite" }
func (persistenceConfig) GetServer() string             { return "" }
func (persistenceConfig) GetDatabase() string           { return "useradmin" }
func (persistenceConfig) GetPingTimeout() time.Duration { return 5 * time.Second }

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
