// affinity_stub.go - CPU pinning no-op for platforms without
// sched_setaffinity(2). Workers still lock their OS thread; only the
// core placement hint is lost.

//go:build !linux

package coroutine

func setAffinity(cpu int) {}
