// SPDX-License-Identifier: Apache-2.0

// Package mapping implements the per-sensor transformation engine and
// the sensor-index dispatcher that owns one mapper per sensor.
//
// Mappers are modelled as a single tagged-variant type rather than an
// interface hierarchy: a Kind discriminant plus kind-specific state, with
// dispatch functions that switch on the tag, deliberately avoiding a
// polymorphic mapper base.
package mapping

import (
	"math"

	"github.com/duanchangstar/sensei/pkg/messages"
)

// Kind discriminates the four mapper variants.
type Kind int

const (
	KindDigital Kind = iota
	KindAnalog
	KindRange
	KindContinuous
)

// changeEpsilon is the floating change-detection threshold.
const changeEpsilon = 1e-4

// Backend is the capability every mapper's ProcessInput sends transformed
// values through. It is a handle passed on each call; mappers hold no
// back-pointer to a backend.
type Backend interface {
	Send(transformed messages.OutputValue, raw messages.Value)
}

// common holds the shared header fields every mapper variant tracks,
// mutated by applyCommon.
type common struct {
	enabled       bool
	hwType        messages.HardwareKind
	hwTypeSet     bool
	pins          []uint8
	sendingMode   messages.SendingMode
	deltaTicks    int
	invert        bool
	sendTimestamp bool
	fastMode      bool
	multiplexed   bool
	muxID         int
	muxPin        int
	name          string
}

func newCommon() common {
	return common{deltaTicks: 1, sendingMode: messages.SendContinuous}
}

type digitalState struct {
	previous float64
	hasPrev  bool
}

type analogState struct {
	bitResolution    int
	filterTimeConst  float64
	sliderThreshold  int
	scaleLow         int
	scaleHigh        int
	previous         float64
	hasPrev          bool
}

type rangeState struct {
	low, high int
	previous  int
	hasPrev   bool
}

type continuousState struct {
	low, high float64
	previous  float64
	hasPrev   bool
}

// Mapper is the per-sensor transformation object. Exactly one of the
// kind-specific state structs is meaningful, selected by Kind.
type Mapper struct {
	Kind Kind
	common
	digital    digitalState
	analog     analogState
	rangeV     rangeState
	continuous continuousState
}

// New creates a mapper of the given kind with default parameters matching
// per-kind defaults.
func New(kind Kind) *Mapper {
	m := &Mapper{Kind: kind, common: newCommon()}
	switch kind {
	case KindAnalog:
		m.analog = analogState{bitResolution: 12, filterTimeConst: 0.020, scaleLow: 0, scaleHigh: 4094}
	case KindContinuous:
		m.continuous = continuousState{low: -math.Pi, high: math.Pi}
	case KindRange:
		m.rangeV = rangeState{low: 0, high: 1}
	}
	return m
}

func clipInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func clipFloat(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// emitDecision implements the shared sending-mode gate used by the
// analog/range/continuous variants: ON_VALUE_CHANGED emits only when
// changed, OFF never emits, every other mode emits unconditionally. The
// digital variant deliberately does not use this helper.
func emitDecision(mode messages.SendingMode, changed bool) bool {
	switch mode {
	case messages.SendOff:
		return false
	case messages.SendOnValueChanged:
		return changed
	default:
		return true
	}
}
