// Package engine holds the survey definition and response validation rules.
// Every function here is a pure computation over model values: operators
// copy the document they are given and return the copy, so callers never
// observe a partially applied mutation. Persistence belongs to the caller.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Hooks for tests that need a fixed clock or predictable ids.
var (
	timeNow = time.Now
	newID   = uuid.NewString
)
