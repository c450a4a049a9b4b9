package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/atelierhq/atelier"
	"github.com/atelierhq/atelier/mailer"
)

type config struct {
	Addr          string        `env:"ATELIER_ADDR,default=:3000"`
	BaseURL       string        `env:"ATELIER_BASE_URL,default=http://localhost:3000"`
	DSN           string        `env:"ATELIER_DSN,default=file:atelier.db?cache=shared&mode=rwc"`
	JWTSecret     string        `env:"ATELIER_JWT_SECRET,required"`
	SessionTTL    time.Duration `env:"ATELIER_SESSION_TTL,default=3h"`
	ActivationTTL time.Duration `env:"ATELIER_ACTIVATION_TTL,default=168h"`
	SecureCookies bool          `env:"ATELIER_SECURE_COOKIES,default=false"`
	Debug         bool          `env:"ATELIER_DEBUG,default=false"`

	SMTPHost     string `env:"ATELIER_SMTP_HOST,required"`
	SMTPPort     int    `env:"ATELIER_SMTP_PORT,default=587"`
	SMTPUsername string `env:"ATELIER_SMTP_USERNAME"`
	SMTPPassword string `env:"ATELIER_SMTP_PASSWORD"`
	MailFrom     string `env:"ATELIER_MAIL_FROM,required"`
}

// zlogAdapter exposes a zerolog logger through the atelier.Logger
// interface. Variadic args are key value pairs, matching call sites.
type zlogAdapter struct {
	log zerolog.Logger
}

func (z zlogAdapter) Debug(msg string, args ...any) { z.emit(z.log.Debug(), msg, args) }
func (z zlogAdapter) Info(msg string, args ...any)  { z.emit(z.log.Info(), msg, args) }
func (z zlogAdapter) Warn(msg string, args ...any)  { z.emit(z.log.Warn(), msg, args) }
func (z zlogAdapter) Error(msg string, args ...any) { z.emit(z.log.Error(), msg, args) }

func (z zlogAdapter) emit(evt *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		evt = evt.Interface(key, args[i+1])
	}
	evt.Msg(msg)
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zlogAdapter{
		log: zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("app", "atelier").Logger(),
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config, logger zlogAdapter) error {
	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := bootstrapSchema(ctx, db); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}

	repo := atelier.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := atelier.NewTokenService(
		[]byte(cfg.JWTSecret),
		cfg.SessionTTL,
		cfg.ActivationTTL,
		"atelier",
		logger,
	)

	post, err := mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	auther := atelier.NewAuthenticator(repo, tokens).WithLogger(logger)
	cookies := atelier.NewSessionCookies(tokens.SessionDuration()).WithSecure(cfg.SecureCookies)

	app := fiber.New(fiber.Config{
		AppName: "atelier",
	})

	atelier.RegisterAccountRoutes(app, func(c *atelier.AccountController) *atelier.AccountController {
		c.Debug = cfg.Debug
		c.Logger = logger
		c.Repo = repo
		c.Auther = auther
		c.Tokens = tokens
		c.Mailer = post
		c.Cookies = cookies
		c.BaseURL = cfg.BaseURL
		return c
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- app.Listen(cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func bootstrapSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*atelier.Role)(nil),
		(*atelier.Account)(nil),
		(*atelier.Operator)(nil),
		(*atelier.Client)(nil),
		(*atelier.Commission)(nil),
		(*atelier.Image)(nil),
		(*atelier.Statistics)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	for _, role := range atelier.DefaultRoles() {
		_, err := db.NewInsert().
			Model(role).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}
