//go:build unix

package heap

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// threadID identifies an OS thread, the Go-native analogue of the
// original source's pthread_t. Collect compares the calling goroutine's
// threadID against the one captured by Init to decide whether it is
// running on the designated mutator thread (spec.md §4.5 step 1, §5).
type threadID int

// lockToCurrentThread pins the calling goroutine to its current OS
// thread for the remainder of its life and returns that thread's id.
// Init calls this so the "designated mutator thread" concept (which, in
// the original pthread-based source, is a single OS thread) has a
// faithful Go equivalent: without LockOSThread, Go's scheduler would be
// free to migrate the mutator goroutine across OS threads between
// Collect calls, defeating the comparison entirely.
func lockToCurrentThread() threadID {
	runtime.LockOSThread()
	return threadID(unix.Gettid())
}

// currentThreadID reads the calling goroutine's current OS thread id
// without locking it. Used by Collect to check whether it is running on
// the mutator thread.
func currentThreadID() threadID {
	return threadID(unix.Gettid())
}

// onMutatorThread reports whether the calling goroutine is running on
// the OS thread captured by Init.
func onMutatorThread(mutator threadID) bool {
	return currentThreadID() == mutator
}
