package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/scorebook/internal/catalog"
	"github.com/handiism/scorebook/internal/config"
	"github.com/handiism/scorebook/internal/progress"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

var archive = map[string]string{
	"funk/tuba_song/tuba_song-tuba.svg":              "<svg>tuba</svg>",
	"funk/tuba_song/svg/tuba_song-caixa.svg":         "<svg>caixa</svg>",
	"funk/tuba_song/tuba_song - metais/trompete.pdf": "%PDF trompete",
	"funk/readme.txt":                                "stray",
	"funk/.DS_Store":                                 "junk",
	"_drafts/x/tuba.svg":                             "<svg/>",
}

func settingsFor(input, output string) *config.Settings {
	s := config.DefaultSettings()
	s.InputPath = input
	s.OutputPath = output
	return s
}

func TestManager_Run(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeTree(t, input, archive)

	var events []progress.Event
	m, err := NewManager(settingsFor(input, output), func(e progress.Event) { events = append(events, e) })
	require.NoError(t, err)

	summary, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageDone, m.Stage())

	assert.Equal(t, 1, summary.Stats.Songs)
	assert.Equal(t, 3, summary.Report.Files)
	assert.Equal(t, output, summary.Location)
	assert.False(t, summary.Exported)

	tree := readTree(t, output)
	assert.Equal(t, "<svg>tuba</svg>", tree["funk/tuba_song/tuba_song-tuba.svg"])
	assert.Equal(t, "<svg>caixa</svg>", tree["funk/tuba_song/svg/tuba_song-caixa.svg"])
	assert.Equal(t, "%PDF trompete", tree["funk/tuba_song/tuba_song - metais/trompete.pdf"])
	assert.NotContains(t, tree, "_drafts/x/tuba.svg")
	assert.Contains(t, tree, catalog.CollectionKey)
	assert.Contains(t, tree, catalog.WarningsKey, "the stray entry produces a warnings document")
	assert.Equal(t, []string{catalog.CollectionKey, catalog.WarningsKey}, summary.Documents)

	written, total := m.GetProgress()
	assert.Equal(t, int32(3), written)
	assert.Equal(t, int32(3), total)
	assert.Equal(t, []string{"tuba_song (2 arrangements)"}, m.GetSongNames())
	assert.NotEmpty(t, events)
}

func TestManager_Idempotent(t *testing.T) {
	input := t.TempDir()
	writeTree(t, input, archive)

	first := t.TempDir()
	second := t.TempDir()

	m, err := NewManager(settingsFor(input, first), nil)
	require.NoError(t, err)
	_, err = m.Run(context.Background())
	require.NoError(t, err)

	var verbose int
	m, err = NewManager(settingsFor(input, second), func(e progress.Event) {
		if e.Level.Verbose() {
			verbose++
		}
	})
	require.NoError(t, err)
	_, err = m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, readTree(t, first), readTree(t, second), "verbosity never changes the output")
	assert.Positive(t, verbose)
}

func TestManager_NoWarningsDocumentWhenClean(t *testing.T) {
	fsys := fstest.MapFS{
		"funk/s/tuba.svg": {Data: []byte("x")},
	}
	output := t.TempDir()

	m, err := NewManager(settingsFor("", output), nil, WithSource(fsys))
	require.NoError(t, err)
	summary, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{catalog.CollectionKey}, summary.Documents)
	_, err = os.Stat(filepath.Join(output, catalog.WarningsKey))
	assert.True(t, os.IsNotExist(err))
}

func TestManager_CleanRunRemovesStaleWarnings(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeTree(t, input, map[string]string{
		"funk/s/tuba.svg": "<svg/>",
		"funk/stray.txt":  "stray",
	})

	m, err := NewManager(settingsFor(input, output), nil)
	require.NoError(t, err)
	_, err = m.Run(context.Background())
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(output, catalog.WarningsKey))

	require.NoError(t, os.Remove(filepath.Join(input, "funk", "stray.txt")))

	m, err = NewManager(settingsFor(input, output), nil)
	require.NoError(t, err)
	summary, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Stats.Warnings)
	assert.Equal(t, []string{catalog.CollectionKey}, summary.Documents)
	assert.NoFileExists(t, filepath.Join(output, catalog.WarningsKey))
}

func TestManager_DefaultSettingsCopyAudioVerbatim(t *testing.T) {
	mp3 := string([]byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, 0, 0xff, 0xfb, 0x90, 0x64, 'a', 'u', 'd', 'i', 'o'})
	input := t.TempDir()
	output := t.TempDir()
	writeTree(t, input, map[string]string{
		"funk/tuba_song/arr/tuba_song-tuba.mp3": mp3,
	})

	m, err := NewManager(settingsFor(input, output), nil)
	require.NoError(t, err)
	summary, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Report.Stamped)
	tree := readTree(t, output)
	assert.Equal(t, mp3, tree["funk/tuba_song/arr/tuba_song-tuba.mp3"])
}

func TestManager_Untagged(t *testing.T) {
	fsys := fstest.MapFS{
		"tuba_song/tuba_song-tuba.svg": {Data: []byte("x")},
	}
	s := settingsFor("", t.TempDir())
	s.Untagged = true

	m, err := NewManager(s, nil, WithSource(fsys))
	require.NoError(t, err)
	require.NoError(t, m.Index(context.Background()))

	res := m.Results()
	require.Len(t, res.Songs, 1)
	assert.Equal(t, "tuba_song", res.Songs[0].Title)
	assert.Empty(t, res.Songs[0].Tags)
}

func TestManager_StagesRequireIndex(t *testing.T) {
	m, err := NewManager(settingsFor("", t.TempDir()), nil, WithSource(fstest.MapFS{}))
	require.NoError(t, err)

	assert.ErrorIs(t, m.Publish(context.Background()), ErrNotIndexed)
	_, err = m.WriteCatalog(context.Background())
	assert.ErrorIs(t, err, ErrNotIndexed)
	_, err = m.Export(context.Background())
	assert.ErrorIs(t, err, ErrNotIndexed)
	assert.Nil(t, m.GetSongNames())
	assert.Equal(t, StageIdle, m.Stage())
}

func TestNewManager_BadInput(t *testing.T) {
	_, err := NewManager(settingsFor(filepath.Join(t.TempDir(), "missing"), t.TempDir()), nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = NewManager(settingsFor(file, t.TempDir()), nil)
	assert.Error(t, err)

	s := settingsFor(t.TempDir(), t.TempDir())
	s.Sink = "ftp"
	_, err = NewManager(s, nil)
	assert.Error(t, err)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "publishing", StagePublishing.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
