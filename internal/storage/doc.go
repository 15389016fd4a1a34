// Package storage persists the three bedelia collections (students, class
// sessions and diplomaturas) as whole JSON snapshots in named slots.
//
// A KV holds raw bytes per slot. MemoryKV serves tests and throwaway runs;
// FileKV keeps one JSON file per slot in the data directory. Repository
// adds typed access on top and writes every collection touched by one
// mutation in a single PutAll, so a cascading delete is never observed
// half applied.
package storage
