package models

import (
	"github.com/google/uuid"
	"github.com/myrjola/guessthechild/internal/errors"
	"log/slog"
)

// ErrInvalidSlot is returned when a slot name is neither childhood nor current.
var ErrInvalidSlot = errors.NewSentinel("invalid slot")

// Slot names one of the two pending upload slots.
type Slot string

const (
	SlotChildhood Slot = "childhood"
	SlotCurrent   Slot = "current"
)

// ParseSlot converts the slot name used in URLs and forms into a Slot.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotChildhood, SlotCurrent:
		return Slot(s), nil
	default:
		return "", errors.Wrap(ErrInvalidSlot, "parse slot", slog.String("slot", s))
	}
}

// Photo is a decoded image upload.
type Photo struct {
	// Data is the original upload as received.
	Data []byte
	// MIMEType is the sniffed content type of Data, e.g. image/jpeg.
	MIMEType string
	// Preview is a data URL of a downscaled rendition suitable for <img src>.
	Preview string
}

// Entry is one person in the slideshow: a childhood photo, a current photo and, once generated, a caption.
type Entry struct {
	ID        string
	Childhood Photo
	Current   Photo
	// Caption is empty until the caption pipeline has produced one.
	Caption string
}

// NewEntry creates an entry with a fresh unique ID.
func NewEntry(childhood, current Photo) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Childhood: childhood,
		Current:   current,
		Caption:   "",
	}
}

// HasCaption reports whether the entry has been captioned.
func (e Entry) HasCaption() bool {
	return e.Caption != ""
}

// Roster is the ordered list of entries. The order is the slide order.
type Roster []Entry

// Clone returns a shallow copy of the roster. Photo payloads are shared since they are never mutated.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	clone := make(Roster, len(r))
	copy(clone, r)
	return clone
}

// Captioned returns the entries that carry a caption, preserving order.
func (r Roster) Captioned() Roster {
	captioned := make(Roster, 0, len(r))
	for _, entry := range r {
		if entry.HasCaption() {
			captioned = append(captioned, entry)
		}
	}
	return captioned
}
