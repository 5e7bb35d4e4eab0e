package main

import (
	"fmt"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/models"
	"github.com/myrjola/guessthechild/internal/slideshow"
	"html/template"
	"net/http"
)

type slotTemplateData struct {
	Slot    models.Slot
	Label   string
	Preview template.URL
}

type entryTemplateData struct {
	ID        string
	Position  int
	Childhood template.URL
	Current   template.URL
}

type uploadTemplateData struct {
	Error      string
	Slots      []slotTemplateData
	CanCommit  bool
	Entries    []entryTemplateData
	SlideCount string
}

type generatingTemplateData struct {
	Progress string
}

type presentingTemplateData struct {
	Empty     bool
	Position  int
	Total     int
	Revealed  bool
	Childhood template.URL
	Current   template.URL
	Caption   string
	HasPrev   bool
	HasNext   bool
}

// home renders the page for the workspace's current view.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	controller, err := app.controller(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	snapshot := controller.Snapshot()

	switch view := snapshot.View.(type) {
	case slideshow.Upload:
		app.render(w, r, http.StatusOK, "upload", newUploadTemplateData(snapshot, controller.PopError()))
	case slideshow.Generating:
		app.render(w, r, http.StatusOK, "generating", generatingTemplateData{Progress: view.Progress})
	case slideshow.Presenting:
		app.render(w, r, http.StatusOK, "presenting", newPresentingTemplateData(view.Presenter))
	default:
		app.serverError(w, r, errors.New(fmt.Sprintf("unknown view %T", view)))
	}
}

func newUploadTemplateData(snapshot slideshow.Snapshot, errorMessage string) uploadTemplateData {
	slot := func(slot models.Slot, label string, photo *models.Photo) slotTemplateData {
		data := slotTemplateData{Slot: slot, Label: label, Preview: ""}
		if photo != nil {
			data.Preview = previewURL(photo.Preview)
		}
		return data
	}

	entries := make([]entryTemplateData, 0, len(snapshot.Roster))
	for i, entry := range snapshot.Roster {
		entries = append(entries, entryTemplateData{
			ID:        entry.ID,
			Position:  i + 1,
			Childhood: previewURL(entry.Childhood.Preview),
			Current:   previewURL(entry.Current.Preview),
		})
	}

	return uploadTemplateData{
		Error: errorMessage,
		Slots: []slotTemplateData{
			slot(models.SlotChildhood, "Childhood photo", snapshot.Childhood),
			slot(models.SlotCurrent, "Current photo", snapshot.Current),
		},
		CanCommit:  snapshot.CanCommit,
		Entries:    entries,
		SlideCount: slideCount(len(snapshot.Roster)),
	}
}

func slideCount(n int) string {
	if n == 1 {
		return "1 Slide"
	}
	return fmt.Sprintf("%d Slides", n)
}

func newPresentingTemplateData(presenter slideshow.Presenter) presentingTemplateData {
	slide, ok := presenter.Slide()
	if !ok {
		return presentingTemplateData{Empty: true} //nolint:exhaustruct // nothing else to show
	}
	cursor := presenter.Cursor()
	return presentingTemplateData{
		Empty:     false,
		Position:  cursor.Index + 1,
		Total:     presenter.Len(),
		Revealed:  cursor.Revealed,
		Childhood: previewURL(slide.Childhood.Preview),
		Current:   previewURL(slide.Current.Preview),
		Caption:   slide.Caption,
		HasPrev:   presenter.HasPrev(),
		HasNext:   presenter.HasNext(),
	}
}
