// SPDX-License-Identifier: Apache-2.0

package mapping

import "github.com/duanchangstar/sensei/pkg/messages"

// ProcessInput routes an inbound sample through this mapper's variant
// pipeline, per the shared base contract.
func (m *Mapper) ProcessInput(value messages.Value, backend Backend) messages.ErrorKind {
	switch m.Kind {
	case KindDigital:
		return m.processDigitalInput(value, backend)
	case KindAnalog:
		return m.processAnalogInput(value, backend)
	case KindRange:
		return m.processRangeInput(value, backend)
	case KindContinuous:
		return m.processContinuousInput(value, backend)
	default:
		return messages.UnhandledCommandForSensorType
	}
}

// ProcessSetValue routes a user-originated set-value request through this
// mapper's reverse path, producing the device-bound Command to translate.
func (m *Mapper) ProcessSetValue(index messages.SensorIndex, value messages.Value) (*messages.Command, messages.ErrorKind) {
	switch m.Kind {
	case KindDigital:
		return m.processDigitalSetValue(index, value)
	case KindAnalog:
		return m.processAnalogSetValue(index, value)
	case KindRange:
		return m.processRangeSetValue(index, value)
	case KindContinuous:
		return m.processContinuousSetValue(index, value)
	default:
		return nil, messages.UnhandledCommandForSensorType
	}
}

// EmitConfigCommands produces the config snapshot used to re-push state to
// a newly attached backend or peer. Analog, range and continuous return
// their kind-specific parameters; the digital variant carries none beyond
// the shared header and returns nil.
func (m *Mapper) EmitConfigCommands(index messages.SensorIndex) []messages.Command {
	switch m.Kind {
	case KindAnalog:
		return m.emitAnalogConfigCommands(index)
	case KindRange:
		return m.emitRangeConfigCommands(index)
	case KindContinuous:
		return m.emitContinuousConfigCommands(index)
	default:
		return nil
	}
}
