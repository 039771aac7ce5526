// SPDX-License-Identifier: Apache-2.0

package mapping

import "github.com/duanchangstar/sensei/pkg/messages"

func (m *Mapper) applyRangeCommand(cmd messages.Command) messages.ErrorKind {
	switch cmd.Kind {
	case messages.SetRangeLow:
		m.rangeV.low = cmd.Int
		return messages.OK
	case messages.SetRangeHigh:
		m.rangeV.high = cmd.Int
		return messages.OK
	default:
		return messages.UnhandledCommandForSensorType
	}
}

// processRangeInput implements the range variant's pipeline: clip the raw
// integer to [low, high], invert by reflecting around the range if
// configured, and gate emission on the sending mode / change (integer
// inequality, not epsilon — I5 only applies to the floating variants).
func (m *Mapper) processRangeInput(value messages.Value, backend Backend) messages.ErrorKind {
	if !m.enabled {
		return messages.OK
	}

	var raw int
	switch v := value.(type) {
	case messages.AnalogValue:
		raw = v.Raw
	default:
		return messages.UnhandledCommandForSensorType
	}

	low, high := m.rangeV.low, m.rangeV.high
	clipped := clipInt(raw, low, high)
	if m.invert {
		clipped = low + high - clipped
	}

	changed := !m.rangeV.hasPrev || clipped != m.rangeV.previous
	m.rangeV.previous = clipped
	m.rangeV.hasPrev = true

	if !emitDecision(m.sendingMode, changed) {
		return messages.OK
	}

	output := messages.NewOutputValue(value.Index(), float64(clipped))
	output.RawInt = raw
	backend.Send(output, value)
	return messages.OK
}

// processRangeSetValue implements the range variant's reverse path: clip
// the integer set-value to [low, high] and produce SET_RANGE_OUTPUT_VALUE.
func (m *Mapper) processRangeSetValue(index messages.SensorIndex, value messages.Value) (*messages.Command, messages.ErrorKind) {
	iv, ok := value.(messages.IntSetValue)
	if !ok {
		return nil, messages.UnhandledCommandForSensorType
	}

	clipped := clipInt(iv.Value, m.rangeV.low, m.rangeV.high)
	cmd := messages.NewSetRangeOutputValue(index, clipped)
	return &cmd, messages.OK
}

// emitRangeConfigCommands produces the config snapshot for the range
// variant's low/high bounds.
func (m *Mapper) emitRangeConfigCommands(index messages.SensorIndex) []messages.Command {
	return []messages.Command{
		messages.NewSetRangeLow(index, float64(m.rangeV.low)),
		messages.NewSetRangeHigh(index, float64(m.rangeV.high)),
	}
}
