package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the stream codec of a blob.
type Compression uint8

const (
	// CompressionNone indicates a plain blob.
	CompressionNone Compression = iota
	// CompressionZSTD indicates a zstd stream (".zst").
	CompressionZSTD
	// CompressionLZ4 indicates an LZ4 frame (".lz4").
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// CompressionFor returns the compression implied by the extension of name.
func CompressionFor(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// NewReader opens the named blob and returns a reader over its decompressed
// contents. Closing the reader closes the blob.
func NewReader(ctx context.Context, store BlobStore, name string) (io.ReadCloser, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		_ = blob.Close()
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	r := &blobReader{Reader: rc, closers: []io.Closer{rc, blob}}
	switch CompressionFor(name) {
	case CompressionZSTD:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		r.Reader = dec
		r.closers = append([]io.Closer{dec.IOReadCloser()}, r.closers...)
	case CompressionLZ4:
		r.Reader = lz4.NewReader(rc)
	}

	return r, nil
}

// ReadAll returns the decompressed contents of the named blob.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	r, err := NewReader(ctx, store, name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	return data, err
}

// NewWriter creates the named blob and returns a writer that compresses
// according to the name's extension. The blob is committed on Close and
// discarded on Abort.
func NewWriter(ctx context.Context, store WritableStore, name string) (WritableBlob, error) {
	blob, err := store.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	w := &blobWriter{blob: blob}
	switch CompressionFor(name) {
	case CompressionZSTD:
		enc, err := zstd.NewWriter(blob, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			_ = blob.Abort()
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		w.enc = enc
	case CompressionLZ4:
		w.enc = lz4.NewWriter(blob)
	}

	return w, nil
}

type blobReader struct {
	io.Reader
	closers []io.Closer
}

func (r *blobReader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type blobWriter struct {
	blob WritableBlob
	enc  io.WriteCloser
}

func (w *blobWriter) Write(p []byte) (int, error) {
	if w.enc != nil {
		return w.enc.Write(p)
	}
	return w.blob.Write(p)
}

func (w *blobWriter) Close() error {
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			_ = w.blob.Abort()
			return err
		}
	}
	return w.blob.Close()
}

func (w *blobWriter) Abort() error {
	return w.blob.Abort()
}
