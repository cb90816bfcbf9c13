// Package inspect turns paths on disk into upload candidates.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/konorlevich/secureshare/internal/files"
)

const (
	DefaultWorkers = 4

	sniffLen    = 512
	genericType = "application/octet-stream"
)

var (
	ErrCantFindFile = errors.New("can't find the file")
	ErrIsNotAFile   = errors.New("is not a regular file")
	ErrCantReadFile = errors.New("can't read the file")
)

type Inspector struct {
	workers int
	l       *log.Entry
}

func NewInspector(workers int, l *log.Entry) *Inspector {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Inspector{workers: workers, l: l.WithField("component", "inspect")}
}

// Inspect stats the paths concurrently and returns candidates in input order.
// The first failing path cancels the rest.
func (i *Inspector) Inspect(ctx context.Context, paths []string) ([]files.Candidate, error) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(i.workers)
	res := make([]files.Candidate, len(paths))
	for n := range paths {
		n := n
		p := paths[n]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := i.candidate(p)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			res[n] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (i *Inspector) candidate(p string) (files.Candidate, error) {
	l := i.l.WithField("path", p)
	st, err := os.Stat(p)
	if err != nil {
		l.WithError(err).Error(ErrCantFindFile)
		return files.Candidate{}, ErrCantFindFile
	}
	if !st.Mode().IsRegular() {
		l.Error(ErrIsNotAFile)
		return files.Candidate{}, ErrIsNotAFile
	}
	typ, err := detectType(p)
	if err != nil {
		l.WithError(err).Error(ErrCantReadFile)
		return files.Candidate{}, ErrCantReadFile
	}
	l.WithFields(log.Fields{"size": st.Size(), "type": typ}).Debug("candidate inspected")
	return files.Candidate{Name: filepath.Base(p), Size: st.Size(), Type: typ}, nil
}

// detectType tries the allow-list extensions, then the system MIME table,
// then the file content. A generic binary result is reported as unknown ("").
func detectType(p string) (string, error) {
	ext := filepath.Ext(p)
	if t := files.TypeForExtension(ext); t != "" {
		return t, nil
	}
	if t := mediaType(mime.TypeByExtension(ext)); t != "" {
		return t, nil
	}

	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return mediaType(http.DetectContentType(buf[:n])), nil
}

func mediaType(t string) string {
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil || mt == genericType {
		return ""
	}
	return mt
}
