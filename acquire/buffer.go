// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package acquire

import (
	"errors"
	"fmt"
)

var (
	// ErrAcquisitionFailed is returned when no usable buffer was obtained.
	ErrAcquisitionFailed = errors.New("acquire: acquisition failed")
	// ErrAllocation is returned when a buffer of the requested size cannot be
	// obtained. It is an ErrAcquisitionFailed.
	ErrAllocation = fmt.Errorf("%w: cannot allocate image buffer", ErrAcquisitionFailed)
	// ErrTooLarge is returned when the declared size exceeds the maximum. It
	// is an ErrAcquisitionFailed.
	ErrTooLarge = fmt.Errorf("%w: image exceeds maximum size", ErrAcquisitionFailed)
	// ErrTruncated describes a Buffer holding fewer bytes than declared.
	ErrTruncated = errors.New("acquire: truncated data")
)

// Arena hands out at most one live Buffer of at most Size bytes.
type Arena struct {
	size int
	held *Buffer
}

// NewArena returns an Arena for buffers of up to size bytes.
func NewArena(size int) *Arena {
	return &Arena{size: size}
}

// Size returns the largest Buffer the Arena can hand out.
func (a *Arena) Size() int {
	return a.size
}

// Held reports whether a Buffer is currently live.
func (a *Arena) Held() bool {
	return a.held != nil
}

// Alloc returns an empty Buffer with capacity n.
func (a *Arena) Alloc(n int) (*Buffer, error) {
	if a.held != nil {
		return nil, fmt.Errorf("%w: a %d byte buffer is still held", ErrAllocation, a.held.Cap())
	}
	if n <= 0 || n > a.size {
		return nil, fmt.Errorf("%w: %d bytes requested, arena holds %d", ErrAllocation, n, a.size)
	}
	b := &Buffer{arena: a, data: make([]byte, n)}
	a.held = b
	return b, nil
}

// Buffer is an exclusively owned image region.
//
// Cap is the declared size the Buffer was allocated for; Len is the number
// of bytes actually received.
type Buffer struct {
	arena *Arena
	data  []byte
	n     int
}

// Bytes returns the received bytes. The slice must not be used after
// Release.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data[:b.n]
}

// Len returns the number of bytes received.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.n
}

// Cap returns the declared size.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Truncated returns an error wrapping ErrTruncated if fewer bytes than
// declared were received.
func (b *Buffer) Truncated() error {
	if b == nil || b.n == len(b.data) {
		return nil
	}
	return fmt.Errorf("%w: received %d of %d bytes", ErrTruncated, b.n, len(b.data))
}

// Write appends p, up to the declared size. It implements io.Writer and
// returns an error when p does not fit.
func (b *Buffer) Write(p []byte) (int, error) {
	n := copy(b.data[b.n:], p)
	b.n += n
	if n < len(p) {
		return n, fmt.Errorf("acquire: buffer full at %d bytes", len(b.data))
	}
	return n, nil
}

// Release returns the Buffer to its Arena.
func (b *Buffer) Release() {
	if b == nil || b.arena == nil {
		return
	}
	if b.arena.held == b {
		b.arena.held = nil
	}
	b.arena = nil
	b.data = nil
	b.n = 0
}
