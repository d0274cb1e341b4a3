package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResults_CountersAreRunScoped(t *testing.T) {
	first := NewResults()
	s1 := first.NewSong("a", nil)
	first.NewArrangement(s1, "a - arr")

	second := NewResults()
	s2 := second.NewSong("b", nil)
	arr := second.NewArrangement(s2, "")

	assert.Equal(t, 1, s1.ID)
	assert.Equal(t, 1, s2.ID, "a fresh run restarts song ids")
	assert.Equal(t, 1, arr.ID, "a fresh run restarts arrangement ids")
	assert.Nil(t, arr.Name)
}

func TestContext_BranchesAreIndependent(t *testing.T) {
	res := NewResults()
	root := RootContext().WithTag("funk")

	left := root.WithSong(res.NewSong("left", root.Tags))
	right := root.WithSong(res.NewSong("right", root.Tags))
	left = left.WithArrangement(res.NewArrangement(left.Song, "l"))

	assert.Nil(t, root.Song, "children never leak into the parent context")
	assert.Nil(t, right.Arrangement, "siblings never see each other's arrangement")
	assert.Equal(t, "left", left.SongTitle())

	tagged := root.WithTag("samba")
	assert.Equal(t, []string{"funk"}, root.Tags)
	assert.Equal(t, []string{"samba"}, tagged.Tags)
}

func TestContext_Snapshot(t *testing.T) {
	res := NewResults()
	c := RootContext()
	assert.Equal(t, ".", c.Snapshot().Path)
	assert.Zero(t, c.Snapshot().SongID)

	c = c.WithSong(res.NewSong("s", nil))
	c = c.WithArrangement(res.NewArrangement(c.Song, "s - arr"))
	c.Path = "funk/s/s - arr"

	snap := c.Snapshot()
	assert.Equal(t, "funk/s/s - arr", snap.Path)
	assert.Equal(t, 1, snap.SongID)
	assert.Equal(t, "s", snap.Song)
	assert.Equal(t, "s - arr", snap.Arrangement)
	assert.Equal(t, "funk/s/s - arr/x.svg", c.Child("x.svg"))

	w := res.Warn(snap, "x.svg", "boom")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, w, res.Warnings[0])
}

func TestIgnored(t *testing.T) {
	assert.True(t, Ignored(".git"))
	assert.True(t, Ignored("_drafts"))
	assert.False(t, Ignored("funk"))
	assert.False(t, Ignored(""))
}

func TestParseSongMetadata(t *testing.T) {
	meta, err := ParseSongMetadata([]byte("composer: '  Tim Maia '\nunknown: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "Tim Maia", meta.Composer)
	assert.Empty(t, meta.Sub)

	_, err = ParseSongMetadata([]byte("composer: [x"))
	assert.Error(t, err)
}
