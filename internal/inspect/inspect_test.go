package inspect

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/konorlevich/secureshare/internal/files"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func getLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.FatalLevel)
	return logger.WithField("in_test", true)
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, content, 0o600))
	return p
}

func TestInspector_Inspect(t *testing.T) {
	dir := t.TempDir()
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	paths := []string{
		writeFile(t, dir, "report.pdf", []byte("%PDF-1.4 fake")),
		writeFile(t, dir, "notes.TXT", []byte("hello")),
		writeFile(t, dir, "picture", png),
		writeFile(t, dir, "plain", []byte("just some text\n")),
		writeFile(t, dir, "blob", []byte{0x00, 0x01, 0x02, 0xff}),
		writeFile(t, dir, "empty", nil),
		writeFile(t, dir, "song.mp3", []byte("ID3")),
	}

	got, err := NewInspector(2, getLogger()).Inspect(context.Background(), paths)
	require.NoError(t, err)

	want := []files.Candidate{
		{Name: "report.pdf", Size: 13, Type: "application/pdf"},
		{Name: "notes.TXT", Size: 5, Type: "text/plain"},
		{Name: "picture", Size: int64(len(png)), Type: "image/png"},
		{Name: "plain", Size: 15, Type: "text/plain"},
		{Name: "blob", Size: 4, Type: ""},
		{Name: "empty", Size: 0, Type: ""},
		{Name: "song.mp3", Size: 3, Type: "audio/mpeg"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inspect()\n%s", diff)
	}
}

func TestInspector_Errors(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "a.txt", []byte("a"))
	tests := []struct {
		name    string
		paths   []string
		wantErr error
	}{
		{name: "missing", paths: []string{ok, filepath.Join(dir, "nope.txt")}, wantErr: ErrCantFindFile},
		{name: "directory", paths: []string{dir}, wantErr: ErrIsNotAFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInspector(0, getLogger()).Inspect(context.Background(), tt.paths)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Inspect() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Nil(t, got)
		})
	}
}

func TestInspector_Cancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewInspector(1, getLogger()).Inspect(ctx, []string{writeFile(t, dir, "a.txt", []byte("a"))})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInspector_NoPaths(t *testing.T) {
	got, err := NewInspector(1, getLogger()).Inspect(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
