// SPDX-License-Identifier: Apache-2.0

package mapping

import (
	"math"

	"github.com/duanchangstar/sensei/pkg/messages"
)

func (m *Mapper) applyContinuousCommand(cmd messages.Command) messages.ErrorKind {
	switch cmd.Kind {
	case messages.SetRangeLow:
		m.continuous.low = cmd.Float
		return messages.OK
	case messages.SetRangeHigh:
		m.continuous.high = cmd.Float
		return messages.OK
	case messages.SetFilterTimeConstant:
		// continuous shares the filter-time-constant knob with the analog
		// variant's smoothing parameter, but has no smoothing state of its
		// own to apply it to yet; accept and ignore per the generic input
		// handling fallback.
		return messages.OK
	default:
		return messages.UnhandledCommandForSensorType
	}
}

// processContinuousInput mirrors the analog variant's pipeline over a
// floating domain: clip to [low, high], normalise to [0, 1], invert if
// configured, gate emission on change (epsilon I5) and sending mode.
func (m *Mapper) processContinuousInput(value messages.Value, backend Backend) messages.ErrorKind {
	if !m.enabled {
		return messages.OK
	}

	cv, ok := value.(messages.ContinuousValue)
	if !ok {
		return messages.UnhandledCommandForSensorType
	}

	low, high := m.continuous.low, m.continuous.high
	clipped := clipFloat(cv.Raw, low, high)

	var normalised float64
	if high > low {
		normalised = (clipped - low) / (high - low)
	}
	if m.invert {
		normalised = 1.0 - normalised
	}

	changed := !m.continuous.hasPrev || math.Abs(normalised-m.continuous.previous) > changeEpsilon
	m.continuous.previous = normalised
	m.continuous.hasPrev = true

	if !emitDecision(m.sendingMode, changed) {
		return messages.OK
	}

	output := messages.NewOutputValue(value.Index(), normalised)
	output.RawFloat = cv.Raw
	output.RawIsFloat = true
	backend.Send(output, value)
	return messages.OK
}

// processContinuousSetValue implements the continuous variant's reverse
// path: clip the float set-value to [0,1], invert, scale to [low, high]
// and produce SET_CONTINUOUS_OUTPUT_VALUE.
func (m *Mapper) processContinuousSetValue(index messages.SensorIndex, value messages.Value) (*messages.Command, messages.ErrorKind) {
	fv, ok := value.(messages.FloatSetValue)
	if !ok {
		return nil, messages.UnhandledCommandForSensorType
	}

	clipped := clipFloat(fv.Value, 0, 1)
	if m.invert {
		clipped = 1.0 - clipped
	}

	low, high := m.continuous.low, m.continuous.high
	scaled := low + clipped*(high-low)

	cmd := messages.NewSetContinuousOutputValue(index, scaled)
	return &cmd, messages.OK
}

// emitContinuousConfigCommands produces the config snapshot for the
// continuous variant's low/high bounds.
func (m *Mapper) emitContinuousConfigCommands(index messages.SensorIndex) []messages.Command {
	return []messages.Command{
		messages.NewSetRangeLow(index, m.continuous.low),
		messages.NewSetRangeHigh(index, m.continuous.high),
	}
}
