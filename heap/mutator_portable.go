//go:build !unix

package heap

import "runtime"

// threadID identifies an OS thread on platforms without a syscall-level
// thread id; see mutator_unix.go for the unix implementation.
type threadID struct{ locked bool }

func lockToCurrentThread() threadID {
	runtime.LockOSThread()
	return threadID{locked: true}
}

// currentThreadID has no portable way to distinguish OS threads, so on
// this fallback path every caller is treated as running on a locked OS
// thread; callers relying on the non-mutator-thread no-op (spec.md §4.5
// step 1) on non-unix platforms should gate Collect calls themselves.
func currentThreadID() threadID {
	return threadID{locked: true}
}

// onMutatorThread always reports true on this fallback path: see
// currentThreadID's doc comment.
func onMutatorThread(mutator threadID) bool {
	return mutator.locked
}
