// Package graphstore persists converted graphs, keyed by the digest of the
// trace they were converted from.
//
// # Why Graph Store Exists
//
// Converting a large trace is not free, and the same trace is often submitted
// more than once (CI reruns, several users of one service). Keying stored
// graphs by trace digest turns a repeated conversion into a lookup and gives
// every converted graph a stable id that can be fetched later.
//
// # Architecture
//
// Store is a thin layer over a Backend that only moves bytes:
//
//	┌──────────────────────────────┐
//	│            Store             │  graphio JSON encode/decode,
//	│  Put / Get / Delete / List   │  metatype re-binding, spans
//	└──────────────┬───────────────┘
//	               │ []byte
//	   ┌───────────┼───────────┬───────────┐
//	   ▼           ▼           ▼           ▼
//	 memory      badger      redis       sqlite
//
//   - **memory**: maps guarded by a mutex; tests and single-shot CLI runs.
//   - **badger**: embedded, on-disk; a long-running local service.
//   - **redis**: shared between service replicas, with an optional TTL.
//   - **sqlite**: a single portable file.
//
// # Thread-Safety
//
// Every backend is safe for concurrent use.
package graphstore
