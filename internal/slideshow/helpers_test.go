package slideshow_test

import (
	"context"
	"fmt"
	"github.com/myrjola/guessthechild/internal/ai"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/models"
	"sync"
	"sync/atomic"
)

// fakeCaptioner returns "caption N" for the Nth call or the error configured for that call.
type fakeCaptioner struct {
	mu       sync.Mutex
	requests []ai.Request
	failOn   map[int]error
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeCaptioner() *fakeCaptioner {
	return &fakeCaptioner{failOn: map[int]error{}} //nolint:exhaustruct // zero values are fine
}

func (f *fakeCaptioner) Caption(_ context.Context, req ai.Request) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	call := len(f.requests)
	if err, ok := f.failOn[call]; ok {
		return "", err
	}
	return fmt.Sprintf("caption %d", call), nil
}

func (f *fakeCaptioner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

var errServiceDown = errors.NewSentinel("service down")

func testPhoto(name string) models.Photo {
	return models.Photo{
		Data:     []byte(name),
		MIMEType: "image/png",
		Preview:  "data:image/jpeg;base64," + name,
	}
}

func testRoster(n int) models.Roster {
	roster := make(models.Roster, 0, n)
	for i := range n {
		roster = append(roster, models.NewEntry(
			testPhoto(fmt.Sprintf("childhood-%d", i)),
			testPhoto(fmt.Sprintf("current-%d", i)),
		))
	}
	return roster
}

func decodeAsPhoto(data []byte) (models.Photo, error) {
	if string(data) == "garbage" {
		return models.Photo{}, errors.NewSentinel("unsupported image")
	}
	return testPhoto(string(data)), nil
}
