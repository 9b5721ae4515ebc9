// Package registry models the function selector a Job's FunctionName opaquely
// names: a registry keyed by that string, exposing execute(name, input) ->
// output, injected into each lane at init. The underlying hardware resolves
// a function name to a simulated deterministic hash; the simulation is the
// default registry entry. This package is that interface plus the default
// entry.
//
// The name-keyed-table-with-a-lookup-function shape follows
// pkg/fuzz/precompile/registry.go (a table of named entries consulted by
// address/name), though the contents are unrelated: that table holds EVM
// precompile test vectors, this one holds deterministic output functions.
package registry

import "github.com/jihwankim/hrcls/pkg/jobmodel"

// Function computes a deterministic output for the given input bytes. It
// returns the bytes produced (the worker truncates to the caller's output
// buffer size) and a bool indicating functional success — a false return
// becomes a Result.Status of Error with ErrorCode Hardware, independent of
// any WCET classification.
type Function func(input []byte) (output []byte, ok bool)

// Registry resolves an opaque FunctionName to a Function. The real hardware
// drivers this core stands in for would dispatch function_name to a
// substrate-specific implementation; that dispatch is out of scope and is
// represented only as this interface.
type Registry interface {
	Lookup(name string) (Function, bool)
}

// simulated is the default Registry entry: every name resolves to the same
// deterministic seeded polynomial-31 fold over the input, matching
// original_source/.../hal_cpu_arm_cortex.c's cpu_execute_function (seed
// 0x12345678, then checksum-by-31 per byte).
type simulated struct{}

// Simulated is the shared default Registry: it accepts any non-empty
// function name and produces the same deterministic output regardless of
// name, which is what lets two different lanes' workers — running the
// "same" function by name — produce byte-identical output.
var Simulated Registry = simulated{}

func (simulated) Lookup(name string) (Function, bool) {
	if name == "" {
		return nil, false
	}
	return simulatedHash, true
}

func simulatedHash(input []byte) ([]byte, bool) {
	const seed uint32 = 0x12345678
	hash := seed
	for _, b := range input {
		hash = hash*31 + uint32(b)
	}
	out := make([]byte, 4)
	out[0] = byte(hash)
	out[1] = byte(hash >> 8)
	out[2] = byte(hash >> 16)
	out[3] = byte(hash >> 24)
	return out, true
}

// Checksum is re-exported for callers that want to verify a worker's output
// against the same poly-31 fold the lane used, without importing jobmodel
// directly.
var Checksum = jobmodel.Checksum
