// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps google/uuid to generate Version 7 values, which sort by creation
time and keep PostgreSQL B-tree indexes compact.

User ids and request ids are produced here.
*/
package uuid

import "github.com/google/uuid"

// NewValue returns a new version 7 UUID.
func NewValue() uuid.UUID {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}

	return id
}

// New returns a new version 7 UUID in its canonical string form.
func New() string {
	return NewValue().String()
}
