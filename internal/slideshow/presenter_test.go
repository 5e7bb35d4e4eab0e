package slideshow_test

import (
	"github.com/myrjola/guessthechild/internal/slideshow"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestPresenter_Navigation(t *testing.T) {
	roster := testRoster(3)
	for i := range roster {
		roster[i].Caption = "caption"
	}
	presenter := slideshow.NewPresenter(roster)
	require.Equal(t, 3, presenter.Len())
	require.Equal(t, slideshow.Cursor{Index: 0, Revealed: false}, presenter.Cursor())

	require.False(t, presenter.Prev(), "no slide before the first")
	require.Equal(t, slideshow.Cursor{Index: 0, Revealed: false}, presenter.Cursor())

	presenter.Reveal()
	presenter.Reveal()
	require.Equal(t, slideshow.Cursor{Index: 0, Revealed: true}, presenter.Cursor())

	require.True(t, presenter.Next())
	require.Equal(t, slideshow.Cursor{Index: 1, Revealed: false}, presenter.Cursor(), "next slide starts hidden")

	presenter.Reveal()
	require.True(t, presenter.Prev())
	require.Equal(t, slideshow.Cursor{Index: 0, Revealed: false}, presenter.Cursor(), "prev slide starts hidden")

	require.True(t, presenter.Next())
	require.True(t, presenter.Next())
	presenter.Reveal()
	require.False(t, presenter.HasNext())
	require.False(t, presenter.Next(), "no slide after the last")
	require.Equal(t, slideshow.Cursor{Index: 2, Revealed: true}, presenter.Cursor(), "last slide stays revealed")

	slide, ok := presenter.Slide()
	require.True(t, ok)
	require.Equal(t, roster[2].ID, slide.ID)
}

func TestPresenter_SkipsUncaptioned(t *testing.T) {
	roster := testRoster(3)
	roster[0].Caption = "first"
	roster[2].Caption = "third"

	presenter := slideshow.NewPresenter(roster)
	require.Equal(t, 2, presenter.Len())
	slides := presenter.Slides()
	require.Equal(t, roster[0].ID, slides[0].ID)
	require.Equal(t, roster[2].ID, slides[1].ID)
}

func TestPresenter_Empty(t *testing.T) {
	presenter := slideshow.NewPresenter(testRoster(2))
	require.True(t, presenter.Empty())

	_, ok := presenter.Slide()
	require.False(t, ok)
	presenter.Reveal()
	require.False(t, presenter.Next())
	require.False(t, presenter.Prev())
	require.Equal(t, slideshow.Cursor{Index: 0, Revealed: false}, presenter.Cursor())
}
