package scanner

import (
	"bufio"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

const maxLineLength = 1 << 20

type LogFile struct {
	Path string
	Date time.Time
	Ext  string
}

// FindLatest returns the newest file in dir whose name matches tmpl, either
// bare or followed by one of the allowed extensions.
func FindLatest(dir string, tmpl Template, exts []string) (LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return LogFile{}, fmt.Errorf("read log dir: %w", err)
	}

	var (
		latest LogFile
		found  bool
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		date, ext, ok := tmpl.Match(entry.Name())
		if !ok {
			continue
		}

		if ext != "" && !slices.ContainsFunc(exts, func(allowed string) bool {
			return strings.EqualFold(allowed, ext)
		}) {
			continue
		}

		candidate := LogFile{
			Path: filepath.Join(dir, entry.Name()),
			Date: date,
			Ext:  strings.ToLower(ext),
		}

		if !found || candidate.Date.After(latest.Date) ||
			candidate.Date.Equal(latest.Date) && candidate.Path > latest.Path {
			latest = candidate
			found = true
		}
	}

	if !found {
		return LogFile{}, fmt.Errorf("%s in %s: %w", tmpl, dir, ErrNoLogFiles)
	}

	return latest, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r readCloser) Close() error {
	var firstErr error

	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Open opens f, transparently decompressing gz and bz2 files.
func Open(f LogFile) (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	switch f.Ext {
	case "":
		return file, nil
	case "gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()

			return nil, fmt.Errorf("open gzip stream %s: %w", f.Path, err)
		}

		return readCloser{Reader: gz, closers: []io.Closer{gz, file}}, nil
	case "bz2":
		return readCloser{Reader: bzip2.NewReader(file), closers: []io.Closer{file}}, nil
	default:
		file.Close()

		return nil, fmt.Errorf("%s: %w", f.Ext, ErrUnsupportedExtension)
	}
}

// Read sends every line of in to out, numbered from 1, and closes out. It
// stops early when ctx is done.
func Read(ctx context.Context, in io.Reader, out chan<- Line) error {
	defer close(out)

	lineNumber := 1
	scan := bufio.NewScanner(in)
	scan.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)

	for scan.Scan() {
		select {
		case out <- newLine(scan.Text(), lineNumber):
		case <-ctx.Done():
			return ctx.Err()
		}

		lineNumber++
	}

	if err := scan.Err(); err != nil {
		return fmt.Errorf("read line #%d: %w", lineNumber, err)
	}

	return nil
}
