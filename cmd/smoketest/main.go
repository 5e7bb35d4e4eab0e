package main

import (
	"bytes"
	"context"
	"github.com/myrjola/guessthechild/internal/e2etest"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/logging"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"
)

// testPhoto is a tiny generated PNG so that the smoke test needs no fixtures.
func testPhoto(c color.Color) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16)) //nolint:mnd // small enough
	for x := range 16 {
		for y := range 16 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

// TestRoster adds a person to a fresh workspace and removes it again. It does not generate captions so that
// the smoke test does not spend captioning credits.
func TestRoster(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for ready")
	}

	photo, err := testPhoto(color.Gray{Y: 128}) //nolint:mnd // mid grey
	if err != nil {
		return err
	}
	for _, slot := range []string{"childhood", "current"} {
		if _, err = client.UploadFile(ctx, "/", "/photos/"+slot, "photo", slot+".png", photo); err != nil {
			return errors.Wrap(err, "upload photo", slog.String("slot", slot))
		}
	}
	doc, err := client.SubmitForm(ctx, "/", "/entries")
	if err != nil {
		return errors.Wrap(err, "add person")
	}
	action, ok := doc.Find("ol.roster form").Attr("action")
	if !ok {
		return errors.New("added person missing from roster")
	}
	if doc, err = client.SubmitForm(ctx, "/", action); err != nil {
		return errors.Wrap(err, "remove person")
	}
	if n := doc.Find("ol.roster li").Length(); n != 0 {
		return errors.New("roster not empty after removal", slog.Int("entries", n))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestRoster(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing roster", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
