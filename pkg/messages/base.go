// SPDX-License-Identifier: Apache-2.0

// Package messages defines the tagged message hierarchy shared by
// every component in SENSEI: the sensor samples flowing up from the
// front-end device, the commands flowing down to it (or sideways into the
// mapping pipeline), and the error messages synthesised by the link
// engine.
package messages

import (
	"time"

	"github.com/google/uuid"
)

// SensorIndex identifies a sensor entity, stable for the life of a
// configuration.
type SensorIndex int

// Base carries the fields every message shares: which sensor it concerns,
// when it was created, and a correlation id used for log correlation.
type Base struct {
	ID          uuid.UUID
	SensorIndex SensorIndex
	Timestamp   time.Time
}

func newBase(index SensorIndex) Base {
	return Base{ID: uuid.New(), SensorIndex: index, Timestamp: time.Now()}
}

// Index returns the sensor index this message concerns, satisfying the
// dispatch contract used by the mapping dispatcher ("value.index()" /
// "command.index()").
func (b Base) Index() SensorIndex { return b.SensorIndex }
