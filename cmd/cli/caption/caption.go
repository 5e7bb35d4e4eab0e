package caption

import (
	"context"
	"fmt"
	"github.com/myrjola/guessthechild/internal/ai"
	"github.com/myrjola/guessthechild/internal/envstruct"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/imaging"
	"github.com/myrjola/guessthechild/internal/logging"
	"github.com/myrjola/guessthechild/internal/models"
	"github.com/myrjola/guessthechild/internal/slideshow"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
	"os"
	"time"
)

var Group = &cobra.Group{
	ID:    "caption",
	Title: "Caption operations",
}

type config struct {
	Provider     string `env:"CAPTION_PROVIDER" envDefault:"gemini"`
	Model        string `env:"CAPTION_MODEL" envDefault:""`
	BaseURL      string `env:"CAPTION_BASE_URL" envDefault:""`
	GeminiAPIKey string `env:"GEMINI_API_KEY" envDefault:""`
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
}

const defaultTimeout = time.Minute

func init() {
	Caption.Flags().String("provider", "", "captioning provider, gemini or openai (default from CAPTION_PROVIDER)")
	Caption.Flags().String("model", "", "model override (default from CAPTION_MODEL)")
	Caption.Flags().Duration("timeout", defaultTimeout, "give up after this long")
	Caption.Flags().Bool("verbose", false, "log the request details to stderr")
}

var Caption = &cobra.Command{ //nolint:exhaustruct // cobra commands only set what they need
	Use:     "caption <childhood photo> <current photo>",
	GroupID: "caption",
	Short:   "Caption a pair of photos",
	Long: `Generates the slideshow caption for one person from a childhood and a current photo.
Useful for checking the API key and trying out models.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // childhood and current photo
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, os.LookupEnv)
		if err != nil {
			return err
		}
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return errors.Wrap(err, "read timeout flag")
		}
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return errors.Wrap(err, "read verbose flag")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		logSink := io.Discard
		if verbose {
			logSink = cmd.ErrOrStderr()
		}
		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
			AddSource:   false,
			Level:       slog.LevelDebug,
			ReplaceAttr: nil,
		})))

		caption, err := run(ctx, cfg, args[0], args[1], logger)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), caption)
		return err //nolint:wrapcheck // printing to stdout
	},
}

func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (config, error) {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return config{}, errors.Wrap(err, "populate config")
	}
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.Provider = provider
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	return cfg, nil
}

// run captions one entry with the same pipeline the web server uses.
func run(ctx context.Context, cfg config, childhoodPath, currentPath string, logger *slog.Logger) (string, error) {
	childhood, err := readPhoto(childhoodPath)
	if err != nil {
		return "", err
	}
	current, err := readPhoto(currentPath)
	if err != nil {
		return "", err
	}

	captioner, err := ai.NewCaptioner(ctx, ai.Config{
		Provider:     cfg.Provider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		BaseURL:      cfg.BaseURL,
	})
	if err != nil {
		return "", errors.Wrap(err, "new captioner")
	}

	pipeline := slideshow.NewPipeline(captioner, cfg.Model, logger)
	roster, err := pipeline.Generate(ctx, models.Roster{models.NewEntry(childhood, current)}, func(p slideshow.Progress) {
		logger.LogAttrs(ctx, slog.LevelInfo, p.String())
	})
	if err != nil {
		return "", errors.Wrap(err, "generate caption")
	}
	return roster[0].Caption, nil
}

func readPhoto(path string) (models.Photo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Photo{}, errors.Wrap(err, "read photo", slog.String("path", path))
	}
	photo, err := imaging.Decode(data)
	if err != nil {
		return models.Photo{}, errors.Wrap(err, "decode photo", slog.String("path", path))
	}
	return photo, nil
}
