// Package motoko is the boundary-marshalling core of the Motoko runtime
// system: the pieces that sit between compiled canister code and the
// outside world.
//
// # Architecture Overview
//
//	motoko/
//	├── leb128/      LEB128 / SLEB128 over an abstract integer capability
//	├── bigint/      math/big integers for the codec
//	├── closure/     Handle table for closures passed across the boundary
//	├── utf8valid/   Strict UTF-8 automaton and the trapping gate
//	├── icurl/       ic: URL decoding with CRC-8 checksum
//	├── host/        wazero host module exposing the core to guests
//	├── config/      YAML configuration
//	├── errors/      Structured error types
//	├── trap/        Fatal traps and their recovery at the embedding edge
//	└── cmd/rts/     Command line and terminal UI
//
// # Quick Start
//
// Encode an arbitrary-precision integer:
//
//	n, _ := bigint.Parse("340282366920938463463374607431768211455")
//	b := leb128.AppendUnsigned(nil, n) // 19 bytes
//
// Keep a closure alive across a foreign call:
//
//	h := closure.Remember(fn)
//	...
//	fn = closure.Recall(h).(func())
//
// Gate untrusted text:
//
//	utf8valid.Validate(payload) // traps on ill-formed input
//
// # Traps
//
// Malformed wire data, handle misuse and invalid text are fatal. They are
// raised with trap.Raise and, at the edge of the process, turned back into
// errors with trap.Catch or by wazero when the trap unwinds a guest call.
package motoko
