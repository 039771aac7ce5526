// SPDX-License-Identifier: Apache-2.0

package mapping

import (
	"github.com/duanchangstar/sensei/pkg/messages"
)

// ProcessDigitalInput implements the digital variant's transformation:
// accepts {DIGITAL, ANALOG} inputs (analog coerced via >0), outputs 0.0 or
// 1.0, inverted if configured. There is no change-detection threshold —
// every enabled sample produces output, regardless of sending mode.
func (m *Mapper) processDigitalInput(value messages.Value, backend Backend) messages.ErrorKind {
	if !m.enabled {
		return messages.OK
	}

	var raw bool
	var rawInt int
	switch v := value.(type) {
	case messages.DigitalValue:
		raw = v.Raw
		if raw {
			rawInt = 1
		}
	case messages.AnalogValue:
		raw = v.Raw > 0
		rawInt = v.Raw
	default:
		return messages.UnhandledCommandForSensorType
	}

	out := 0.0
	if raw {
		out = 1.0
	}
	if m.invert {
		out = 1.0 - out
	}

	m.digital.previous = out
	m.digital.hasPrev = true

	output := messages.NewOutputValue(value.Index(), out)
	output.RawInt = rawInt
	backend.Send(output, value)
	return messages.OK
}

// processDigitalSetValue implements the digital variant's reverse path:
// accepts {INT_SET, FLOAT_SET} (coerced via >0 / >0.5) and produces
// SET_DIGITAL_OUTPUT_VALUE.
func (m *Mapper) processDigitalSetValue(index messages.SensorIndex, value messages.Value) (*messages.Command, messages.ErrorKind) {
	var on bool
	switch v := value.(type) {
	case messages.IntSetValue:
		on = v.Value > 0
	case messages.FloatSetValue:
		on = v.Value > 0.5
	default:
		return nil, messages.UnhandledCommandForSensorType
	}

	cmd := messages.NewSetDigitalOutputValue(index, on)
	return &cmd, messages.OK
}
