package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	gzSuffix   = ".gz"
	zstdSuffix = ".zst"
	brSuffix   = ".br"
)

// multiCloser closes the decompressor before the file under it.
type multiCloser struct {
	io.Reader
	closers []func() error
}

func (m *multiCloser) Close() (err error) {
	for _, c := range m.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

type multiWriteCloser struct {
	io.Writer
	closers []func() error
}

func (m *multiWriteCloser) Close() (err error) {
	for _, c := range m.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Compression returns the compression suffix of fn or "" for plain text.
func Compression(fn string) string {
	for _, s := range []string{gzSuffix, zstdSuffix, brSuffix} {
		if strings.HasSuffix(fn, s) {
			return s
		}
	}
	return ""
}

// OpenFile opens fn for reading, decompressing by suffix (*.gz, *.zst, *.br).
// "-" reads stdin.
func OpenFile(fn string) (io.ReadCloser, error) {
	var fp *os.File
	if fn == "-" {
		fp = os.Stdin
	} else {
		var err error
		fp, err = os.Open(fn)
		if err != nil {
			return nil, fmt.Errorf("[OpenFile] open file: %s failed: %w", fn, err)
		}
	}
	return NewReader(fp, Compression(fn), fn)
}

// NewReader wraps an already opened stream.
func NewReader(fp io.ReadCloser, compression, fn string) (io.ReadCloser, error) {
	switch compression {
	case gzSuffix:
		gzfp, err := gzip.NewReader(fp)
		if err != nil {
			fp.Close()
			return nil, fmt.Errorf("[OpenFile] gzip open file: %s failed: %w", fn, err)
		}
		return &multiCloser{Reader: bufio.NewReader(gzfp), closers: []func() error{gzfp.Close, fp.Close}}, nil
	case zstdSuffix:
		zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
		if err != nil {
			fp.Close()
			return nil, fmt.Errorf("[OpenFile] zstd open file: %s failed: %w", fn, err)
		}
		return &multiCloser{Reader: bufio.NewReader(zr), closers: []func() error{func() error { zr.Close(); return nil }, fp.Close}}, nil
	case brSuffix:
		brfp := cbrotli.NewReader(fp)
		return &multiCloser{Reader: bufio.NewReader(brfp), closers: []func() error{brfp.Close, fp.Close}}, nil
	}
	return &multiCloser{Reader: bufio.NewReader(fp), closers: []func() error{fp.Close}}, nil
}

// CreateFile creates fn for writing, compressing by suffix. "-" writes stdout.
func CreateFile(fn string) (io.WriteCloser, error) {
	var fp *os.File
	if fn == "-" {
		fp = os.Stdout
	} else {
		var err error
		fp, err = os.Create(fn)
		if err != nil {
			return nil, fmt.Errorf("[CreateFile] create file: %s failed: %w", fn, err)
		}
	}
	switch Compression(fn) {
	case gzSuffix:
		gzfp := gzip.NewWriter(fp)
		return &multiWriteCloser{Writer: gzfp, closers: []func() error{gzfp.Close, fp.Close}}, nil
	case zstdSuffix:
		zw, err := zstd.NewWriter(fp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
		if err != nil {
			fp.Close()
			return nil, fmt.Errorf("[CreateFile] zstd create file: %s failed: %w", fn, err)
		}
		return &multiWriteCloser{Writer: zw, closers: []func() error{zw.Close, fp.Close}}, nil
	case brSuffix:
		brfp := cbrotli.NewWriter(fp, cbrotli.WriterOptions{Quality: 1})
		return &multiWriteCloser{Writer: brfp, closers: []func() error{brfp.Close, fp.Close}}, nil
	}
	bw := bufio.NewWriter(fp)
	return &multiWriteCloser{Writer: bw, closers: []func() error{bw.Flush, fp.Close}}, nil
}
