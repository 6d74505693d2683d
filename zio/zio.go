/*
 * zio.go, part of molprep.
 *
 * Copyright 2026 The molprep authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package zio opens and creates files that are transparently (de)compressed
// according to their extension: .gz, .zst, .xz, .lz4 and, for reading only, .bz2.
// Any other extension means a plain file.
package zio

import (
	"bufio"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Codec identifies a compression format.
type Codec string

const (
	Plain Codec = ""
	Gzip  Codec = "gz"
	Zstd  Codec = "zst"
	Xz    Codec = "xz"
	Lz4   Codec = "lz4"
	Bzip2 Codec = "bz2"
)

// ErrUnsupported is returned when a codec can't be used for the requested operation.
var ErrUnsupported = errors.New("unsupported compression format")

// CodecFor deduces the compression format from the extension of fname.
func CodecFor(fname string) Codec {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fname), "."))
	switch ext {
	case "gz", "gzip":
		return Gzip
	case "zst", "zstd":
		return Zstd
	case "xz":
		return Xz
	case "lz4":
		return Lz4
	case "bz2", "bzip2":
		return Bzip2
	}
	return Plain
}

// Trim returns fname without the compression extension, if it has one.
// "1abc.pdb.gz" gives "1abc.pdb".
func Trim(fname string) string {
	if CodecFor(fname) == Plain {
		return fname
	}
	return strings.TrimSuffix(fname, filepath.Ext(fname))
}

// readCloser closes the decompressor (if it needs it) and then the underlying file.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// NewReader returns a reader that decompresses the data read from r with
// the given codec. Closing it doesn't close r.
func NewReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	ret := &readCloser{}
	switch c {
	case Plain:
		ret.Reader = r
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		ret.Reader = gz
		ret.closers = append(ret.closers, gz.Close)
	case Zstd:
		zs, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		ret.Reader = zs
		ret.closers = append(ret.closers, func() error { zs.Close(); return nil })
	case Xz:
		x, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}
		ret.Reader = x
	case Lz4:
		ret.Reader = lz4.NewReader(r)
	case Bzip2:
		ret.Reader = bzip2.NewReader(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, string(c))
	}
	return ret, nil
}

// Open opens the file fname for reading, decompressing it if its extension
// says so.
func Open(fname string) (io.ReadCloser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(bufio.NewReader(f), CodecFor(fname))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	rc := r.(*readCloser)
	rc.closers = append(rc.closers, f.Close)
	return rc, nil
}

// writeCloser closes the compressor, flushes the buffer and closes the file,
// in that order.
type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var err error
	for _, c := range w.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// NewWriter returns a writer that compresses data with the given codec before
// writing it to w. It has to be closed to flush the compressed stream, which
// doesn't close w. Bzip2 is not supported for writing.
func NewWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	ret := &writeCloser{}
	switch c {
	case Plain:
		ret.Writer = w
	case Gzip:
		gz := gzip.NewWriter(w)
		ret.Writer = gz
		ret.closers = append(ret.closers, gz.Close)
	case Zstd:
		zs, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		ret.Writer = zs
		ret.closers = append(ret.closers, zs.Close)
	case Xz:
		x, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}
		ret.Writer = x
		ret.closers = append(ret.closers, x.Close)
	case Lz4:
		l := lz4.NewWriter(w)
		ret.Writer = l
		ret.closers = append(ret.closers, l.Close)
	default:
		return nil, fmt.Errorf("%w for writing: %q", ErrUnsupported, string(c))
	}
	return ret, nil
}

// Create creates (or truncates) the file fname, compressing what is written
// to it if its extension says so.
func Create(fname string) (io.WriteCloser, error) {
	c := CodecFor(fname)
	if c == Bzip2 {
		return nil, fmt.Errorf("%s: %w for writing: bz2", fname, ErrUnsupported)
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	w, err := NewWriter(buf, c)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	wc := w.(*writeCloser)
	wc.closers = append(wc.closers, buf.Flush, f.Close)
	return wc, nil
}
