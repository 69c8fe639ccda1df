//go:build unix

package heap

import "golang.org/x/sys/unix"

// mmapBuffer is a NativeResource backed by an anonymous mmap'd page
// range. It holds pure byte data (string characters, array element
// storage, regexp source text) with no Go pointers inside, so unlike a
// Cell's own header fields it is safe to keep outside the Go runtime's
// normally-scanned heap — matching how the original C source's
// variant buffers were plain malloc'd memory the collector's finalizer
// freed directly.
type mmapBuffer struct {
	data     []byte
	released bool
}

// NewNativeBuffer allocates an n-byte native buffer for a string,
// array, or regexp-source payload. Falls back to an ordinary Go byte
// slice (heapBuffer) if the mmap syscall itself fails.
func NewNativeBuffer(n int) NativeResource {
	if n <= 0 {
		n = 1
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		// Fall back to ordinary Go memory rather than aborting the
		// whole heap over a diagnostics-only allocation strategy.
		return &heapBuffer{data: make([]byte, n)}
	}
	return &mmapBuffer{data: data}
}

// Bytes returns the buffer's backing storage.
func (b *mmapBuffer) Bytes() []byte { return b.data }

// Release unmaps the buffer. It is a no-op if already released; the
// sweeper calls it at most once per cell, and the check covers any
// other caller that releases the buffer again.
func (b *mmapBuffer) Release() {
	if b.released || b.data == nil {
		return
	}
	unix.Munmap(b.data)
	b.data = nil
	b.released = true
}
