package slideshow

// View is the top-level screen the workspace is on. It is one of Upload, Generating or Presenting.
type View interface {
	isView()
}

// Upload is the initial view where the roster is assembled.
type Upload struct{}

// Generating is shown while the caption pipeline runs.
type Generating struct {
	// Progress is the latest progress message, empty before the first entry is reached.
	Progress string
}

// Presenting is the slideshow over the captioned roster.
type Presenting struct {
	Presenter Presenter
}

func (Upload) isView()     {}
func (Generating) isView() {}
func (Presenting) isView() {}
