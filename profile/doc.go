// Package profile provides optional runtime profiling for the cadl
// command.
//
// Profiling support is compiled in with the "pprof" build tag and
// configured through a [Session]. Without the tag every operation is a
// no-op with zero overhead.
//
//	s := profile.Session{Mode: "cpu", Dir: "/tmp/profiles", Quiet: true}
//	defer s.Start().Stop()
//
// Profile files are written to the configured directory with names
// matching the mode (cpu.pprof, heap.pprof, and so on). Analyze them
// with:
//
//	go tool pprof ./cadl /tmp/profiles/cpu.pprof
//
// Use [Modes] for the list of supported modes.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
