package slideshow

import (
	"github.com/myrjola/guessthechild/internal/models"
)

// Cursor is the position in the slideshow: the slide index and whether it has been revealed.
type Cursor struct {
	Index    int
	Revealed bool
}

// Presenter drives the reveal slideshow. Each slide starts in the guessing state showing only the childhood
// photo and moves to the revealed state on Reveal. Changing slides always returns to guessing.
type Presenter struct {
	slides models.Roster
	cursor Cursor
}

// NewPresenter creates a presenter for the captioned entries of roster. Entries without a caption are not
// presentable and are left out.
func NewPresenter(roster models.Roster) Presenter {
	return Presenter{
		slides: roster.Captioned(),
		cursor: Cursor{Index: 0, Revealed: false},
	}
}

// Empty reports whether there is nothing to present.
func (p *Presenter) Empty() bool {
	return len(p.slides) == 0
}

// Len returns the number of slides.
func (p *Presenter) Len() int {
	return len(p.slides)
}

// Cursor returns the current position.
func (p *Presenter) Cursor() Cursor {
	return p.cursor
}

// Slide returns the entry under the cursor. ok is false when the presenter is empty.
func (p *Presenter) Slide() (entry models.Entry, ok bool) {
	if p.Empty() {
		return models.Entry{}, false
	}
	return p.slides[p.cursor.Index], true
}

// Slides returns a copy of the presentable entries.
func (p *Presenter) Slides() models.Roster {
	return p.slides.Clone()
}

// HasNext reports whether Next would move.
func (p *Presenter) HasNext() bool {
	return p.cursor.Index < len(p.slides)-1
}

// HasPrev reports whether Prev would move.
func (p *Presenter) HasPrev() bool {
	return p.cursor.Index > 0
}

// Reveal shows the current photo and caption. Revealing twice is a no-op.
func (p *Presenter) Reveal() {
	if p.Empty() {
		return
	}
	p.cursor.Revealed = true
}

// Next moves to the following slide in the guessing state. It reports false at the last slide.
func (p *Presenter) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.cursor = Cursor{Index: p.cursor.Index + 1, Revealed: false}
	return true
}

// Prev moves to the preceding slide in the guessing state. It reports false at the first slide.
func (p *Presenter) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.cursor = Cursor{Index: p.cursor.Index - 1, Revealed: false}
	return true
}
