//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm

// le_check.go - halidetraceviz requires a little-endian architecture.
//
// Packet payloads are machine-endian (spec.md §9): the tracing producer
// writes its own byte order and this tool never converts it. This file
// compiles on known LE targets. The sibling file be_unsupported.go
// contains a deliberate compile error for any architecture not listed here.

package main
