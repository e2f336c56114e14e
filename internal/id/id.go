// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package id provides the identifiers assigned to scene entities and routed
// event receivers.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ID identifies an entity within a scene. The zero value means "anonymous".
type ID = ulid.ULID

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// Zero is the anonymous identifier.
var Zero ID

// New generates a new, globally unique identifier.
func New() ID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// Parse parses the canonical string form of an identifier.
func Parse(s string) (ID, error) {
	parsed, err := ulid.Parse(s)
	if err != nil {
		return ID{}, oops.Code("INVALID_ID").With("id", s).Wrap(err)
	}
	return parsed, nil
}

// OrNew returns v unless it is the zero identifier, in which case a fresh
// identifier is generated.
func OrNew(v ID) ID {
	if v.IsZero() {
		return New()
	}
	return v
}
