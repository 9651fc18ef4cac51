// Package profile provides optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o jidelnicek .
//	./jidelnicek --pprof-mode cpu --pprof-dir ./profiles menu -c 12345
//
// Without the tag, [Modes] is empty and [Profiler.Start] is a no-op.
//
// Supported modes: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread, trace. Profiles are written to the configured directory (default
// $XDG_CACHE_HOME/jidelnicek/pprof) and analyzed with go tool pprof:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// The tagged build also imports [net/http/pprof], so the serve command
// exposes /debug/pprof/ on its listener.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
