// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package acquire

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// roundTripper serves a canned response with a body that may be shorter
// than its declared length.
type roundTripper struct {
	status   int
	declared int64
	body     io.Reader
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode:    rt.status,
		Status:        strconv.Itoa(rt.status) + " " + http.StatusText(rt.status),
		ContentLength: rt.declared,
		Body:          io.NopCloser(rt.body),
		Request:       req,
	}, nil
}

// chunkRecorder records the size of each Read call.
type chunkRecorder struct {
	r     io.Reader
	sizes []int
}

func (c *chunkRecorder) Read(p []byte) (int, error) {
	c.sizes = append(c.sizes, len(p))
	return c.r.Read(p)
}

func TestFetch(t *testing.T) {
	payload := bytes.Repeat([]byte{0xA5}, 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	arena := NewArena(4096)
	f := New(arena, nil)
	buf, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if diff := cmp.Diff(buf.Bytes(), payload); diff != "" {
		t.Errorf("Bytes() difference (-got +want):\n%s", diff)
	}
	if err := buf.Truncated(); err != nil {
		t.Errorf("Truncated() = %v", err)
	}
	if !arena.Held() {
		t.Error("arena does not report the live buffer")
	}
	buf.Release()
	buf.Release()
	if arena.Held() {
		t.Error("arena still holds the buffer after Release()")
	}
}

func TestFetchChunks(t *testing.T) {
	rec := &chunkRecorder{r: bytes.NewReader(make([]byte, 1300))}
	arena := NewArena(2000)
	f := New(arena, &Opts{Transport: &roundTripper{status: http.StatusOK, declared: 1300, body: rec}})

	buf, err := f.Fetch(context.Background(), "http://frame.invalid/image.bmp")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	defer buf.Release()

	if diff := cmp.Diff(rec.sizes, []int{512, 512, 276}); diff != "" {
		t.Errorf("read sizes difference (-got +want):\n%s", diff)
	}
}

func TestFetchTruncated(t *testing.T) {
	arena := NewArena(1024)
	f := New(arena, &Opts{Transport: &roundTripper{status: http.StatusOK, declared: 100, body: bytes.NewReader(make([]byte, 40))}})

	buf, err := f.Fetch(context.Background(), "http://frame.invalid/image.bmp")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	defer buf.Release()

	if buf.Len() != 40 || buf.Cap() != 100 {
		t.Errorf("Len(), Cap() = %d, %d, want 40, 100", buf.Len(), buf.Cap())
	}
	if err := buf.Truncated(); !errors.Is(err, ErrTruncated) {
		t.Errorf("Truncated() = %v, want ErrTruncated", err)
	}
}

func TestFetchErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		rt      *roundTripper
		arena   int
		wantErr error
	}{
		{
			name:    "not found",
			rt:      &roundTripper{status: http.StatusNotFound, declared: 10, body: bytes.NewReader(nil)},
			arena:   100,
			wantErr: ErrAcquisitionFailed,
		},
		{
			name:    "unknown length",
			rt:      &roundTripper{status: http.StatusOK, declared: -1, body: bytes.NewReader(make([]byte, 10))},
			arena:   100,
			wantErr: ErrAcquisitionFailed,
		},
		{
			name:    "empty",
			rt:      &roundTripper{status: http.StatusOK, declared: 0, body: bytes.NewReader(nil)},
			arena:   100,
			wantErr: ErrAcquisitionFailed,
		},
		{
			name:    "too large",
			rt:      &roundTripper{status: http.StatusOK, declared: 101, body: bytes.NewReader(make([]byte, 101))},
			arena:   100,
			wantErr: ErrTooLarge,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			arena := NewArena(tc.arena)
			f := New(arena, &Opts{Transport: tc.rt})

			buf, err := f.Fetch(context.Background(), "http://frame.invalid/image.bmp")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Fetch() error = %v, want %v", err, tc.wantErr)
			}
			if buf != nil {
				t.Error("Fetch() returned a buffer on error")
			}
			if arena.Held() {
				t.Error("arena holds a buffer after a failed Fetch()")
			}
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(NewArena(10), nil).Fetch(context.Background(), url)
	if !errors.Is(err, ErrAcquisitionFailed) {
		t.Errorf("Fetch() error = %v, want ErrAcquisitionFailed", err)
	}
}

func TestArena(t *testing.T) {
	arena := NewArena(64)

	a, err := arena.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc() failed: %v", err)
	}
	if _, err := arena.Alloc(8); !errors.Is(err, ErrAllocation) {
		t.Errorf("second Alloc() error = %v, want ErrAllocation", err)
	}
	a.Release()

	if _, err := arena.Alloc(65); !errors.Is(err, ErrAllocation) {
		t.Errorf("oversized Alloc() error = %v, want ErrAllocation", err)
	}
	if !errors.Is(ErrAllocation, ErrAcquisitionFailed) {
		t.Error("ErrAllocation is not an ErrAcquisitionFailed")
	}

	b, err := arena.Alloc(4)
	if err != nil {
		t.Fatalf("Alloc() after Release() failed: %v", err)
	}
	if n, err := b.Write([]byte{1, 2, 3, 4, 5}); n != 4 || err == nil {
		t.Errorf("Write() = %d, %v, want 4 and an error", n, err)
	}
	// A released buffer must not free a newer one.
	a.Release()
	if !arena.Held() {
		t.Error("stale Release() freed the live buffer")
	}
	b.Release()

	var nilBuf *Buffer
	nilBuf.Release()
	if nilBuf.Len() != 0 || nilBuf.Bytes() != nil {
		t.Error("nil Buffer is not empty")
	}
}

func TestTrigger(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "", http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/fail" {
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		posts++
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	f := New(NewArena(10), nil)
	if err := f.Trigger(context.Background(), srv.URL+"/generate-image"); err != nil {
		t.Errorf("Trigger() failed: %v", err)
	}
	if posts != 1 {
		t.Errorf("server saw %d posts, want 1", posts)
	}
	if err := f.Trigger(context.Background(), srv.URL+"/fail"); err == nil {
		t.Error("Trigger() succeeded on a 500")
	}
}
