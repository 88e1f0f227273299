//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The packet codec decodes fixed-width integers with encoding/binary's
// LittleEndian, matching the wire format produced on little-endian
// tracing hosts (spec.md §9); it has no compensating byte-swap path.
var _ = "halidetraceviz requires a little-endian architecture" + 1
