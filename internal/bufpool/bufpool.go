// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package bufpool hands out reusable scratch buffers for the large
// transient allocations some codecs make (reversed BLZ payloads and their
// decode staging), the same sync.Pool reuse pattern the LZO1X-999 encoder
// applies to its temporary buffers. Callers must Release on every exit
// path, including error paths.
package bufpool

import "sync"

var pool = sync.Pool{
	New: func() any {
		return &Buffer{}
	},
}

// Buffer wraps reusable scratch storage rented from the pool.
type Buffer struct {
	data []byte // data is the pooled backing storage, resliced per Get.
}

// Get rents a Buffer whose Bytes slice has length n. Contents are
// unspecified; callers overwrite before reading.
func Get(n int) *Buffer {
	b := pool.Get().(*Buffer)
	if cap(b.data) < n {
		b.data = make([]byte, n)
	}
	b.data = b.data[:n]
	return b
}

// Bytes returns the rented slice. It is only valid until Release.
func (b *Buffer) Bytes() []byte { return b.data }

// Release returns the buffer to the pool.
func (b *Buffer) Release() { pool.Put(b) }
