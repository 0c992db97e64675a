// Package buffers provides a shared pool of copy buffers so concurrent
// file transfers do not each allocate a fresh megabyte slice.
package buffers

import (
	"sync"

	"github.com/sysbutler/butler/internal/constants"
)

var copyPool = sync.Pool{
	New: func() any {
		b := make([]byte, constants.CopyBufferSize)
		return &b
	},
}

// Get returns a copy buffer of constants.CopyBufferSize bytes. The caller
// must return it with Put once the copy finishes.
func Get() *[]byte {
	return copyPool.Get().(*[]byte)
}

// Put returns a buffer obtained from Get to the pool.
func Put(b *[]byte) {
	copyPool.Put(b)
}
