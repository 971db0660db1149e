//go:build js && wasm

package lockfile

import "os"

// WASM has no file locking and runs single-process; locking degrades
// to a no-op.

func flockExclusive(f *os.File, block bool) error { return nil }

func flockUnlock(f *os.File) error { return nil }
