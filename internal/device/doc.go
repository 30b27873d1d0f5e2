// Package device is the gateway's device registry: the mapping from an
// EnOcean sender address to a named, configured device.
//
// # Architecture
//
//	┌──────────────────┐    ┌──────────────────┐
//	│     Registry      │    │      Store        │
//	│  (registry.go)    │───▶│   (store.go)      │
//	│ • in-memory cache │    │ • devices.json    │
//	│ • address lookup  │    │ • legacy INI       │
//	│ • thread safety   │    │ • full rewrite     │
//	└──────────────────┘    └──────────────────┘
//
// The registry is populated from disk at startup and mutated only through
// its own methods; every mutation is persisted before the call returns.
//
// # Thread Safety
//
// Registry is safe for concurrent use. All operations are protected by a
// read-write mutex.
package device
