package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sortdhq/sortd/internal/envelope"
)

// outputJSON pretty-prints v to stdout. Fatal on encode failure: if the
// envelope itself cannot be serialized there is nothing sane to emit.
func outputJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// emitSuccess wraps data in the success envelope when --json is set.
// Human-mode output is printed by each command before calling this.
func emitSuccess(data interface{}) {
	if !jsonOutput {
		return
	}
	meta := envelope.Meta{
		DurationMS: time.Since(cmdStart).Milliseconds(),
	}
	if client != nil {
		meta.RequestID = client.LastRequestID()
	}
	outputJSON(envelope.NewSuccess(data, meta))
}
