package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/guessthechild/internal/ai"
	"github.com/myrjola/guessthechild/internal/broker"
	"github.com/myrjola/guessthechild/internal/envstruct"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/imaging"
	"github.com/myrjola/guessthechild/internal/logging"
	"github.com/myrjola/guessthechild/internal/pprofserver"
	"github.com/myrjola/guessthechild/internal/repositories"
	"github.com/myrjola/guessthechild/internal/slideshow"
	"github.com/myrjola/guessthechild/internal/sqlite"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type application struct {
	logger         *slog.Logger
	db             *sqlite.Database
	sessionManager *scs.SessionManager
	workspaces     *repositories.WorkspaceRepository
	progress       *broker.ChannelBroker[string, string]
}

type config struct {
	// Addr is the address the HTTP server listens on. Use port 0 for a random free port.
	Addr string `env:"GUESSWHO_ADDR" envDefault:"localhost:4000"`
	// PprofPort is the loopback port for pprof, e.g. ":6060". Empty disables pprof.
	PprofPort string `env:"GUESSWHO_PPROF_PORT" envDefault:":6060"`
	// SqliteURL is the session database, a file path or ":memory:".
	SqliteURL string `env:"GUESSWHO_SQLITE_URL" envDefault:":memory:"`
	// CaptionProvider is "gemini" or "openai".
	CaptionProvider string `env:"CAPTION_PROVIDER" envDefault:"gemini"`
	// CaptionModel overrides the provider's default model.
	CaptionModel string `env:"CAPTION_MODEL" envDefault:""`
	// CaptionBaseURL overrides the provider endpoint, used in tests.
	CaptionBaseURL string `env:"CAPTION_BASE_URL" envDefault:""`
	GeminiAPIKey   string `env:"GEMINI_API_KEY" envDefault:""`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY" envDefault:""`
}

const (
	sessionLifetime        = 12 * time.Hour
	sessionCleanupInterval = 30 * time.Minute
	workspacePruneInterval = 10 * time.Minute
)

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg       config
		err       error
		captioner ai.Captioner
		db        *sqlite.Database
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	// Refuse to start without credentials for the captioning service.
	if captioner, err = ai.NewCaptioner(ctx, ai.Config{
		Provider:     cfg.CaptionProvider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		BaseURL:      cfg.CaptionBaseURL,
	}); err != nil {
		return errors.Wrap(err, "new captioner")
	}

	pprofserver.Launch(ctx, cfg.PprofPort, logger)

	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "new database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db", slog.String("url", cfg.SqliteURL))

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite, sessionCleanupInterval)
	sessionManager.Lifetime = sessionLifetime
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	pipeline := slideshow.NewPipeline(captioner, cfg.CaptionModel, logger)
	workspaces := repositories.NewWorkspaceRepository(func() *slideshow.Controller {
		return slideshow.NewController(pipeline, imaging.Decode, logger)
	}, logger)
	go workspaces.StartPruner(ctx, workspacePruneInterval, sessionLifetime)

	progress := broker.NewChannelBroker[string, string]()
	go progress.Start(ctx)

	app := application{
		logger:         logger,
		db:             db,
		sessionManager: sessionManager,
		workspaces:     workspaces,
		progress:       progress,
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "caption provider configured",
		slog.String("provider", cfg.CaptionProvider), slog.String("model", cfg.CaptionModel))

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// The .env file is optional, the environment may already carry the configuration.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
