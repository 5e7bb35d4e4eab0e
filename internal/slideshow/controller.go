package slideshow

import (
	"context"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/models"
	"log/slog"
	"sync"
)

var (
	ErrBusy          = errors.NewSentinel("caption generation in progress")
	ErrNotUploading  = errors.NewSentinel("roster can only be edited before generating captions")
	ErrNotPresenting = errors.NewSentinel("slideshow is not being presented")
)

// Messages shown to the user on the upload view.
const (
	MessageEmptyRoster      = "Please add at least one person to the presentation."
	MessageCaptionFailed    = "Failed to generate captions. Please check the API key and try again."
	MessageUnsupportedImage = "That file could not be read as an image. Please choose a PNG, JPEG or WebP photo."
)

// DecodeFunc turns an uploaded file into a photo with a preview.
type DecodeFunc func(data []byte) (models.Photo, error)

// Controller owns one slideshow workspace: the roster editor, the current view and the user-facing error
// message. All methods are safe for concurrent use.
type Controller struct {
	mu           sync.Mutex
	editor       Editor
	view         View
	errorMessage string

	pipeline *Pipeline
	decode   DecodeFunc
	logger   *slog.Logger
}

// NewController creates a controller in the upload view with an empty roster.
func NewController(pipeline *Pipeline, decode DecodeFunc, logger *slog.Logger) *Controller {
	return &Controller{ //nolint:exhaustruct // zero values are the initial state
		view:     Upload{},
		pipeline: pipeline,
		decode:   decode,
		logger:   logger,
	}
}

// Snapshot is an immutable copy of the controller state for rendering.
type Snapshot struct {
	View      View
	Roster    models.Roster
	Childhood *models.Photo
	Current   *models.Photo
	CanCommit bool
	Error     string
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		View:      c.view,
		Roster:    c.editor.Roster(),
		Childhood: nil,
		Current:   nil,
		CanCommit: c.editor.CanCommit(),
		Error:     c.errorMessage,
	}
	if photo, ok := c.editor.Pending(models.SlotChildhood); ok {
		snapshot.Childhood = &photo
	}
	if photo, ok := c.editor.Pending(models.SlotCurrent); ok {
		snapshot.Current = &photo
	}
	return snapshot
}

// PopError returns the user-facing error message and clears it, so it is shown once.
func (c *Controller) PopError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := c.errorMessage
	c.errorMessage = ""
	return msg
}

// requireUpload must be called with c.mu held.
func (c *Controller) requireUpload() error {
	switch c.view.(type) {
	case Upload:
		return nil
	case Generating:
		return ErrBusy
	default:
		return ErrNotUploading
	}
}

// SelectImage decodes data and stores it in the pending slot. Unreadable files leave the slot unchanged and
// set the error message.
func (c *Controller) SelectImage(ctx context.Context, slot models.Slot, data []byte) error {
	// Decode outside the lock, it is the slow part.
	photo, decodeErr := c.decode(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireUpload(); err != nil {
		return err
	}
	if decodeErr != nil {
		c.errorMessage = MessageUnsupportedImage
		c.logger.LogAttrs(ctx, slog.LevelDebug, "rejected image", slog.String("slot", string(slot)),
			errors.SlogError(decodeErr))
		return errors.Wrap(decodeErr, "decode image", slog.String("slot", string(slot)))
	}
	c.editor.SelectImage(slot, photo)
	c.errorMessage = ""
	return nil
}

// CommitEntry turns the two pending photos into a roster entry. ok is false when a slot is still empty.
func (c *Controller) CommitEntry() (entry models.Entry, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.requireUpload(); err != nil {
		return models.Entry{}, false, err
	}
	entry, ok = c.editor.CommitEntry()
	return entry, ok, nil
}

// DeleteEntry removes the entry with id from the roster. Unknown ids are ignored.
func (c *Controller) DeleteEntry(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireUpload(); err != nil {
		return false, err
	}
	return c.editor.DeleteEntry(id), nil
}

// Generation is a caption pipeline run that has been admitted by BeginGeneration.
type Generation struct {
	controller *Controller
	roster     models.Roster
}

// BeginGeneration validates the roster and moves to the generating view. The returned generation must be run
// exactly once. An empty roster sets the error message and returns ErrEmptyRoster.
func (c *Controller) BeginGeneration() (*Generation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireUpload(); err != nil {
		return nil, err
	}
	roster := c.editor.Roster()
	if len(roster) == 0 {
		c.errorMessage = MessageEmptyRoster
		return nil, ErrEmptyRoster
	}
	c.view = Generating{Progress: ""}
	c.errorMessage = ""
	return &Generation{controller: c, roster: roster}, nil
}

// Total is the number of entries the generation works through.
func (g *Generation) Total() int {
	return len(g.roster)
}

// Run captions the roster snapshot taken by BeginGeneration. On success the roster is replaced with the
// captioned one and the controller starts presenting. On failure the roster is left as it was and the
// controller returns to the upload view with an error message.
func (g *Generation) Run(ctx context.Context, progress func(Progress)) error {
	c := g.controller

	// The progress message must be cleared however the pipeline exits, panics included.
	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.view.(Generating); ok {
			c.view = Upload{}
		}
	}()

	captioned, err := c.pipeline.Generate(ctx, g.roster, func(p Progress) {
		c.mu.Lock()
		c.view = Generating{Progress: p.String()}
		c.mu.Unlock()
		if progress != nil {
			progress(p)
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errorMessage = MessageCaptionFailed
		c.view = Upload{}
		c.logger.LogAttrs(ctx, slog.LevelError, "caption generation failed", errors.SlogError(err))
		return err
	}
	c.editor.ReplaceRoster(captioned)
	c.view = Presenting{Presenter: NewPresenter(captioned)}
	return nil
}

// Generate runs the caption pipeline synchronously. See BeginGeneration and Generation.Run.
func (c *Controller) Generate(ctx context.Context, progress func(Progress)) error {
	generation, err := c.BeginGeneration()
	if err != nil {
		return err
	}
	return generation.Run(ctx, progress)
}

// present applies fn to the presenter. Must not be called with c.mu held.
func (c *Controller) present(fn func(p *Presenter)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	presenting, ok := c.view.(Presenting)
	if !ok {
		return ErrNotPresenting
	}
	fn(&presenting.Presenter)
	c.view = presenting
	return nil
}

// Reveal shows the current photo and caption of the current slide.
func (c *Controller) Reveal() error {
	return c.present(func(p *Presenter) { p.Reveal() })
}

// Next moves to the next slide if there is one.
func (c *Controller) Next() error {
	return c.present(func(p *Presenter) { p.Next() })
}

// Prev moves to the previous slide if there is one.
func (c *Controller) Prev() error {
	return c.present(func(p *Presenter) { p.Prev() })
}

// Reset discards everything and returns to the upload view. It is refused while captions are generated.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.view.(Generating); ok {
		return ErrBusy
	}
	c.editor.Reset()
	c.view = Upload{}
	c.errorMessage = ""
	return nil
}
