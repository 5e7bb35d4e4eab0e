package slideshow_test

import (
	"github.com/myrjola/guessthechild/internal/models"
	"github.com/myrjola/guessthechild/internal/slideshow"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestEditor_CommitEntry(t *testing.T) {
	var editor slideshow.Editor

	_, ok := editor.CommitEntry()
	require.False(t, ok, "commit with both slots empty")

	editor.SelectImage(models.SlotChildhood, testPhoto("kid"))
	_, ok = editor.CommitEntry()
	require.False(t, ok, "commit with current slot empty")
	require.Empty(t, editor.Roster())

	editor.SelectImage(models.SlotCurrent, testPhoto("adult-old"))
	editor.SelectImage(models.SlotCurrent, testPhoto("adult"))
	entry, ok := editor.CommitEntry()
	require.True(t, ok)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, testPhoto("kid"), entry.Childhood)
	require.Equal(t, testPhoto("adult"), entry.Current, "selecting again overwrites the slot")
	require.False(t, entry.HasCaption())

	roster := editor.Roster()
	require.Len(t, roster, 1)
	require.Equal(t, entry, roster[0])

	_, pending := editor.Pending(models.SlotChildhood)
	require.False(t, pending, "childhood slot cleared after commit")
	_, pending = editor.Pending(models.SlotCurrent)
	require.False(t, pending, "current slot cleared after commit")
	require.False(t, editor.CanCommit())
}

func TestEditor_UniqueIDsAndOrder(t *testing.T) {
	var editor slideshow.Editor
	ids := map[string]bool{}
	for _, name := range []string{"a", "b", "c"} {
		editor.SelectImage(models.SlotChildhood, testPhoto(name))
		editor.SelectImage(models.SlotCurrent, testPhoto(name))
		entry, ok := editor.CommitEntry()
		require.True(t, ok)
		require.False(t, ids[entry.ID], "duplicate id %s", entry.ID)
		ids[entry.ID] = true
	}
	roster := editor.Roster()
	require.Len(t, roster, 3)
	for i, name := range []string{"a", "b", "c"} {
		require.Equal(t, testPhoto(name), roster[i].Childhood, "insertion order is kept")
	}
}

func TestEditor_DeleteEntry(t *testing.T) {
	var editor slideshow.Editor
	for _, name := range []string{"a", "b", "c"} {
		editor.SelectImage(models.SlotChildhood, testPhoto(name))
		editor.SelectImage(models.SlotCurrent, testPhoto(name))
		editor.CommitEntry()
	}
	before := editor.Roster()

	require.False(t, editor.DeleteEntry("no-such-id"))
	require.Len(t, editor.Roster(), 3, "unknown id leaves the roster alone")

	require.True(t, editor.DeleteEntry(before[1].ID))
	after := editor.Roster()
	require.Equal(t, models.Roster{before[0], before[2]}, after)
	require.Len(t, before, 3, "earlier copies are not affected")
	require.Equal(t, testPhoto("b"), before[1].Childhood)
}

func TestEditor_Reset(t *testing.T) {
	var editor slideshow.Editor
	editor.SelectImage(models.SlotChildhood, testPhoto("a"))
	editor.SelectImage(models.SlotCurrent, testPhoto("a"))
	editor.CommitEntry()
	editor.SelectImage(models.SlotChildhood, testPhoto("b"))

	editor.Reset()
	require.Empty(t, editor.Roster())
	_, pending := editor.Pending(models.SlotChildhood)
	require.False(t, pending)
}
