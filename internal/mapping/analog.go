// SPDX-License-Identifier: Apache-2.0

package mapping

import (
	"math"

	"github.com/duanchangstar/sensei/pkg/messages"
)

func (m *Mapper) applyAnalogCommand(cmd messages.Command) messages.ErrorKind {
	switch cmd.Kind {
	case messages.SetADCBitResolution:
		m.analog.bitResolution = cmd.Int
		return messages.OK
	case messages.SetFilterTimeConstant:
		m.analog.filterTimeConst = cmd.Float
		return messages.OK
	case messages.SetSliderThreshold:
		m.analog.sliderThreshold = cmd.Int
		return messages.OK
	case messages.SetInputScaleRangeLow:
		m.analog.scaleLow = cmd.Int
		return messages.OK
	case messages.SetInputScaleRangeHigh:
		m.analog.scaleHigh = cmd.Int
		return messages.OK
	default:
		return messages.UnhandledCommandForSensorType
	}
}

// processAnalogInput implements the analog variant's pipeline: clip to
// [low, high], normalise to [0, 1], invert if configured, and gate
// emission on the sending mode / change-detection rule.
func (m *Mapper) processAnalogInput(value messages.Value, backend Backend) messages.ErrorKind {
	if !m.enabled {
		return messages.OK
	}

	av, ok := value.(messages.AnalogValue)
	if !ok {
		return messages.UnhandledCommandForSensorType
	}

	low, high := m.analog.scaleLow, m.analog.scaleHigh
	clipped := clipInt(av.Raw, low, high)

	var normalised float64
	if high > low {
		normalised = float64(clipped-low) / float64(high-low)
	}
	if m.invert {
		normalised = 1.0 - normalised
	}

	changed := !m.analog.hasPrev || math.Abs(normalised-m.analog.previous) > changeEpsilon
	m.analog.previous = normalised
	m.analog.hasPrev = true

	if !emitDecision(m.sendingMode, changed) {
		return messages.OK
	}

	output := messages.NewOutputValue(value.Index(), normalised)
	output.RawInt = av.Raw
	backend.Send(output, value)
	return messages.OK
}

// processAnalogSetValue implements the analog variant's reverse path: clip
// [0,1] float, invert, scale to [low, high] integer.
func (m *Mapper) processAnalogSetValue(index messages.SensorIndex, value messages.Value) (*messages.Command, messages.ErrorKind) {
	fv, ok := value.(messages.FloatSetValue)
	if !ok {
		return nil, messages.UnhandledCommandForSensorType
	}

	clipped := clipFloat(fv.Value, 0, 1)
	if m.invert {
		clipped = 1.0 - clipped
	}

	low, high := m.analog.scaleLow, m.analog.scaleHigh
	scaled := low + int(math.Round(clipped*float64(high-low)))

	cmd := messages.NewSetRangeOutputValue(index, scaled)
	return &cmd, messages.OK
}

// emitAnalogConfigCommands produces the config snapshot for bit-resolution,
// filter time constant, slider threshold and input range.
func (m *Mapper) emitAnalogConfigCommands(index messages.SensorIndex) []messages.Command {
	return []messages.Command{
		messages.NewSetADCBitResolution(index, m.analog.bitResolution),
		messages.NewSetFilterTimeConstant(index, m.analog.filterTimeConst),
		messages.NewSetSliderThreshold(index, m.analog.sliderThreshold),
		messages.NewSetInputScaleRangeLow(index, m.analog.scaleLow),
		messages.NewSetInputScaleRangeHigh(index, m.analog.scaleHigh),
	}
}
