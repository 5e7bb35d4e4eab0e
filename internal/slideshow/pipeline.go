package slideshow

import (
	"context"
	"fmt"
	"github.com/myrjola/guessthechild/internal/ai"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/models"
	"log/slog"
	"strings"
	"time"
)

var (
	ErrEmptyRoster   = errors.NewSentinel("roster is empty")
	ErrCaptionFailed = errors.NewSentinel("caption generation failed")
)

// Progress reports which entry the pipeline is working on. Index is 1-based.
type Progress struct {
	Index int
	Total int
}

func (p Progress) String() string {
	return fmt.Sprintf("Generating caption %d of %d", p.Index, p.Total)
}

// Pipeline captions roster entries one at a time.
type Pipeline struct {
	captioner ai.Captioner
	model     string
	logger    *slog.Logger
}

// NewPipeline creates a pipeline that requests captions from captioner using model. An empty model lets the
// captioner pick its default.
func NewPipeline(captioner ai.Captioner, model string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		captioner: captioner,
		model:     model,
		logger:    logger,
	}
}

// Generate returns a copy of roster where every entry has a caption.
//
// Entries are processed strictly in order and only one captioning call is in flight at a time. progress is
// called before each entry. Entries that already have a caption are kept as is without calling the service,
// which makes repeated runs on the same roster cheap. On failure the error wraps ErrCaptionFailed and no
// partial result is returned; roster itself is never modified.
func (p *Pipeline) Generate(ctx context.Context, roster models.Roster, progress func(Progress)) (models.Roster, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	total := len(roster)
	captioned := make(models.Roster, 0, total)
	for i, entry := range roster {
		if progress != nil {
			progress(Progress{Index: i + 1, Total: total})
		}

		if entry.HasCaption() {
			captioned = append(captioned, entry)
			continue
		}

		start := time.Now()
		caption, err := p.caption(ctx, entry)
		if err != nil {
			return nil, errors.Wrap(errors.Join(ErrCaptionFailed, err), "caption entry",
				slog.String("entry_id", entry.ID), slog.Int("index", i))
		}
		p.logger.LogAttrs(ctx, slog.LevelDebug, "captioned entry",
			slog.String("entry_id", entry.ID),
			slog.Int("caption_length", len(caption)),
			slog.Duration("duration", time.Since(start)))

		entry.Caption = caption
		captioned = append(captioned, entry)
	}

	return captioned, nil
}

func (p *Pipeline) caption(ctx context.Context, entry models.Entry) (string, error) {
	childhood, err := ai.NewImagePart(entry.Childhood.Data, entry.Childhood.MIMEType)
	if err != nil {
		return "", errors.Wrap(err, "encode childhood photo")
	}
	current, err := ai.NewImagePart(entry.Current.Data, entry.Current.MIMEType)
	if err != nil {
		return "", errors.Wrap(err, "encode current photo")
	}

	req := ai.Request{
		Model: p.model,
		Parts: []ai.Part{childhood, current, ai.NewTextPart(ai.CaptionPrompt)},
	}
	caption, err := p.captioner.Caption(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "request caption")
	}
	return cleanCaption(caption), nil
}

var quotePairs = [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}}

// cleanCaption trims whitespace and a single pair of wrapping quotes. The presenter adds its own quotes.
func cleanCaption(caption string) string {
	caption = strings.TrimSpace(caption)
	for _, pair := range quotePairs {
		opening, closing := pair[0], pair[1]
		if len(caption) >= len(opening)+len(closing) &&
			strings.HasPrefix(caption, opening) && strings.HasSuffix(caption, closing) {
			return strings.TrimSpace(caption[len(opening) : len(caption)-len(closing)])
		}
	}
	return caption
}
