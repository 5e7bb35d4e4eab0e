package slideshow

import (
	"github.com/myrjola/guessthechild/internal/models"
)

// Editor assembles the roster from pairs of uploaded photos.
//
// The zero value is an empty editor ready to use. Editor is not safe for concurrent use; the Controller
// serialises access.
type Editor struct {
	roster    models.Roster
	childhood *models.Photo
	current   *models.Photo
}

// SelectImage stores photo in the given pending slot, replacing whatever was there.
func (e *Editor) SelectImage(slot models.Slot, photo models.Photo) {
	switch slot {
	case models.SlotChildhood:
		e.childhood = &photo
	case models.SlotCurrent:
		e.current = &photo
	}
}

// Pending returns the photo waiting in slot, if any.
func (e *Editor) Pending(slot models.Slot) (models.Photo, bool) {
	var p *models.Photo
	switch slot {
	case models.SlotChildhood:
		p = e.childhood
	case models.SlotCurrent:
		p = e.current
	}
	if p == nil {
		return models.Photo{}, false
	}
	return *p, true
}

// CanCommit reports whether both pending slots are populated.
func (e *Editor) CanCommit() bool {
	return e.childhood != nil && e.current != nil
}

// CommitEntry appends a new entry made from the two pending photos and clears the slots. It does nothing and
// returns false unless both slots are populated.
func (e *Editor) CommitEntry() (models.Entry, bool) {
	if !e.CanCommit() {
		return models.Entry{}, false
	}
	entry := models.NewEntry(*e.childhood, *e.current)
	e.roster = append(e.roster, entry)
	e.clearPending()
	return entry, true
}

// DeleteEntry removes the entry with id. Unknown ids are ignored. It reports whether an entry was removed.
func (e *Editor) DeleteEntry(id string) bool {
	for i, entry := range e.roster {
		if entry.ID == id {
			e.roster = append(e.roster[:i:i], e.roster[i+1:]...)
			return true
		}
	}
	return false
}

// Roster returns a copy of the committed entries in insertion order.
func (e *Editor) Roster() models.Roster {
	return e.roster.Clone()
}

// ReplaceRoster swaps in a roster produced by the caption pipeline.
func (e *Editor) ReplaceRoster(roster models.Roster) {
	e.roster = roster.Clone()
}

// Reset discards the roster and both pending slots.
func (e *Editor) Reset() {
	e.roster = nil
	e.clearPending()
}

func (e *Editor) clearPending() {
	e.childhood = nil
	e.current = nil
}
