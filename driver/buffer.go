// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package driver

import "io"

// Buffer is a fixed-size byte window refilled incrementally from an
// io.Reader. Size reports how many leading bytes of the underlying array
// are currently valid; bytes at or past Size are stale.
//
// Invariant: a recovery point passed to Renew must satisfy
// 0 <= recoveryPoint <= Size.
type Buffer struct {
	data []byte
	size int
}

// NewBuffer allocates a Buffer backed by an array of the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Bytes returns the currently valid prefix of the buffer's backing array.
func (b *Buffer) Bytes() []byte { return b.data[:b.size] }

// Size reports how many bytes of the backing array are currently valid.
func (b *Buffer) Size() int { return b.size }

// Cap reports the buffer's total capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Init reads as much as is available from r into the full buffer and
// records how many bytes were read.
func (b *Buffer) Init(r io.Reader) (int, error) {
	n, err := io.ReadFull(r, b.data)
	err = squashEOF(err)
	b.size = n
	return n, err
}

// squashEOF reports io.EOF and io.ErrUnexpectedEOF as success: both simply
// mean fewer bytes were available than requested, which Renew/Init signal
// through their returned count, not through an error.
func squashEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil
	}
	return err
}

// Renew shifts the unread bytes in [recoveryPoint, Size) down to offset 0,
// then reads into the remaining tail, and updates Size to
// (Size - recoveryPoint) + bytesRead. If recoveryPoint equals Size (no
// bytes need to be preserved), Renew is a plain read into the full buffer.
// It reports the number of new bytes read; a return of 0 means the reader
// is exhausted.
func (b *Buffer) Renew(r io.Reader, recoveryPoint int) (int, error) {
	if recoveryPoint == b.size {
		return b.Init(r)
	}
	kept := b.size - recoveryPoint
	copy(b.data, b.data[recoveryPoint:b.size])
	n, err := io.ReadFull(r, b.data[kept:])
	err = squashEOF(err)
	b.size = kept + n
	return n, err
}
