// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultChunkSize is the size of a single read from the response body.
const DefaultChunkSize = 512

// Opts configures a Fetcher.
type Opts struct {
	// Timeout bounds each request, including reading the body. Zero means
	// 30 seconds.
	Timeout time.Duration
	// ChunkSize is the size of a single body read. Zero means DefaultChunkSize.
	ChunkSize int
	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Fetcher downloads images into Buffers from an Arena.
type Fetcher struct {
	client *http.Client
	arena  *Arena
	chunk  int
	log    *slog.Logger
}

// New returns a Fetcher that allocates from arena. The arena size is the
// maximum accepted Content-Length.
func New(arena *Arena, o *Opts) *Fetcher {
	if o == nil {
		o = &Opts{}
	}
	timeout := o.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	chunk := o.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	l := o.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout, Transport: o.Transport},
		arena:  arena,
		chunk:  chunk,
		log:    l,
	}
}

// Fetch GETs url and copies the body into a new Buffer.
//
// The declared Content-Length must be positive and no larger than the arena.
// The body is copied in chunks until the declared length is reached or the
// connection ends; a short body still returns the Buffer, see
// Buffer.Truncated. On error no Buffer is held.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Buffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAcquisitionFailed, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrAcquisitionFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrAcquisitionFailed, url, resp.Status)
	}
	declared := resp.ContentLength
	if declared <= 0 {
		return nil, fmt.Errorf("%w: GET %s: no usable Content-Length (%d)", ErrAcquisitionFailed, url, declared)
	}
	if declared > int64(f.arena.Size()) {
		return nil, fmt.Errorf("%w: GET %s: %d bytes declared, at most %d accepted", ErrTooLarge, url, declared, f.arena.Size())
	}

	buf, err := f.arena.Alloc(int(declared))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	chunk := make([]byte, f.chunk)
	for buf.Len() < buf.Cap() {
		n, err := resp.Body.Read(chunk[:min(len(chunk), buf.Cap()-buf.Len())])
		if n > 0 {
			// Cannot fail: the read was sized to the remaining capacity.
			_, _ = buf.Write(chunk[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.log.Warn("image transfer interrupted", "url", url, "read", buf.Len(), "declared", declared, "err", err)
			}
			break
		}
	}
	f.log.Info("image downloaded", "url", url, "read", buf.Len(), "declared", declared, "elapsed", time.Since(start))
	return buf, nil
}

// Trigger POSTs an empty body to url, asking the server to render fresh
// content. Any 2xx status is a success.
func (f *Fetcher) Trigger(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("acquire: POST %s: %w", url, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused for the image.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("acquire: POST %s: %s", url, resp.Status)
	}
	return nil
}
