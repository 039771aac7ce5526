// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/duanchangstar/sensei/pkg/messages"
)

// CompileError wraps a messages.ErrorKind raised while walking the
// document, carrying enough context for the log line the compiler's
// caller emits before aborting.
type CompileError struct {
	Kind    messages.ErrorKind
	Context string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Context)
}

func newCompileError(context string) error {
	return &CompileError{Kind: messages.ParameterError, Context: context}
}

// Compile walks doc and returns the totally ordered command sequence
// described by , bracketed by a leading ENABLE_SENDING_PACKETS(false)
// and a trailing ENABLE_SENDING_PACKETS(true). On error the commands
// emitted so far (starting with the leading mute) are returned alongside the
// error, leaving the device in its safe, muted state.
func Compile(doc *Document) ([]messages.Command, error) {
	cmds := []messages.Command{messages.NewEnableSendingPackets(false)}

	for _, backend := range doc.Backends {
		emitted, err := compileBackend(backend)
		cmds = append(cmds, emitted...)
		if err != nil {
			return cmds, err
		}
	}

	for _, sensor := range doc.Sensors {
		emitted, err := compileSensor(sensor)
		cmds = append(cmds, emitted...)
		if err != nil {
			return cmds, err
		}
	}

	emitted, err := compileIMU(doc.IMU)
	cmds = append(cmds, emitted...)
	if err != nil {
		return cmds, err
	}

	cmds = append(cmds, messages.NewEnableSendingPackets(true))
	return cmds, nil
}

// compileSensor emits one sensor's commands in the fixed order the device
// depends on: id, name, sensor_type, hardware, parameter, enabled, mode,
// inverted, range.
func compileSensor(s SensorDoc) ([]messages.Command, error) {
	if s.ID == nil {
		return nil, newCompileError("sensor id not found in configuration")
	}
	index := messages.SensorIndex(*s.ID)

	var cmds []messages.Command

	if s.Name != nil {
		cmds = append(cmds, messages.NewSetName(index, *s.Name))
	}

	if s.SensorType != nil {
		kind, ok := sensorTypes[*s.SensorType]
		if !ok {
			return cmds, newCompileError(fmt.Sprintf("%q is not a recognized sensor type", *s.SensorType))
		}
		cmds = append(cmds, messages.NewSetSensorType(index, kind))
	}

	if s.Hardware != nil {
		emitted, err := compileSensorHardware(*s.Hardware, index)
		cmds = append(cmds, emitted...)
		if err != nil {
			return cmds, err
		}
	}

	if s.Parameter != nil {
		if !imuParameterAxes[*s.Parameter] {
			return cmds, newCompileError(fmt.Sprintf("%q is not a recognized imu parameter", *s.Parameter))
		}
		cmds = append(cmds, messages.NewSetIMUParameterBinding(*s.Parameter, index))
	}

	if s.Enabled != nil {
		cmds = append(cmds, messages.NewSetEnabled(index, *s.Enabled))
	}

	if s.Mode != nil {
		mode, ok := sendingModes[*s.Mode]
		if !ok {
			return cmds, newCompileError(fmt.Sprintf("%q is not a recognized sending mode", *s.Mode))
		}
		cmds = append(cmds, messages.NewSetSendingMode(index, mode))
	}

	if s.Inverted != nil {
		cmds = append(cmds, messages.NewSetInvert(index, *s.Inverted))
	}

	if len(s.Range) >= 2 {
		cmds = append(cmds,
			messages.NewSetInputScaleRangeLow(index, int(s.Range[0])),
			messages.NewSetInputScaleRangeHigh(index, int(s.Range[1])),
		)
	}

	return cmds, nil
}

// compileSensorHardware emits the nested "hardware" object's keys, pin
// index first per since the hardware type is meaningless without a
// pin bound to it.
func compileSensorHardware(h HardwareDoc, index messages.SensorIndex) ([]messages.Command, error) {
	var cmds []messages.Command

	if h.PinIndex != nil {
		cmds = append(cmds, messages.NewSetHWPin(index, uint8(*h.PinIndex)))
	}

	if h.HardwareType != nil {
		kind, ok := hardwareTypes[*h.HardwareType]
		if !ok {
			return cmds, newCompileError(fmt.Sprintf("%q is not a recognized sensor hardware type", *h.HardwareType))
		}
		cmds = append(cmds, messages.NewSetSensorHWType(index, kind))
	}

	if h.DeltaTicks != nil {
		cmds = append(cmds, messages.NewSetSendingDeltaTicks(index, *h.DeltaTicks))
	}

	if h.ADCResolution != nil {
		cmds = append(cmds, messages.NewSetADCBitResolution(index, *h.ADCResolution))
	}

	if h.LowpassCutoff != nil {
		cmds = append(cmds, messages.NewSetFilterTimeConstant(index, *h.LowpassCutoff))
	}

	// lowpass_order has no dedicated command in the taxonomy; the filter
	// time constant alone governs the device-side lowpass, so the key is
	// accepted but otherwise inert.

	if h.SliderThreshold != nil {
		cmds = append(cmds, messages.NewSetSliderThreshold(index, *h.SliderThreshold))
	}

	return cmds, nil
}

// compileBackend emits id-gated, then type-agnostic, then type-specific
// backend commands.
func compileBackend(b BackendDoc) ([]messages.Command, error) {
	if b.ID == nil {
		return nil, newCompileError("backend id not found in configuration")
	}
	id := messages.SensorIndex(*b.ID)

	var cmds []messages.Command

	if b.Enabled != nil {
		cmds = append(cmds, messages.NewSetBackendEnabled(id, *b.Enabled))
	}
	if b.RawInputEnabled != nil {
		cmds = append(cmds, messages.NewSetBackendRawInputEnabled(id, *b.RawInputEnabled))
	}

	if b.Type == nil {
		return cmds, nil
	}
	kind, ok := backendTypes[*b.Type]
	if !ok {
		// Unknown backend types are tolerated (the original tolerates
		// any non-"osc" type as a no-op past the common fields).
		return cmds, nil
	}
	if kind != messages.BackendOSC {
		return cmds, nil
	}

	if b.Host != nil {
		cmds = append(cmds, messages.NewSetBackendHost(id, *b.Host))
	}
	if b.Port != nil {
		cmds = append(cmds, messages.NewSetBackendPort(id, *b.Port))
	}
	if b.BasePath != nil {
		cmds = append(cmds, messages.NewSetBackendBasePath(id, *b.BasePath))
	}
	if b.BaseRawInputPath != nil {
		cmds = append(cmds, messages.NewSetBackendRawBasePath(id, *b.BaseRawInputPath))
	}
	return cmds, nil
}

// compileIMU emits the singleton IMU's commands. An IMU block with every
// key absent is a legitimate no-op, not an error.
func compileIMU(imu IMUDoc) ([]messages.Command, error) {
	var cmds []messages.Command

	if imu.FilterMode != nil {
		mode, ok := imuFilterModes[*imu.FilterMode]
		if !ok {
			// The original logs and defaults to "no orientation" rather
			// than aborting compilation for an unrecognized filter mode.
			mode = messages.IMUFilterNone
		}
		cmds = append(cmds, messages.NewSetIMUFilterMode(mode))
	}

	if imu.AccelerometerRangeMax != nil {
		cmds = append(cmds, messages.NewSetIMUAccelRangeMax(*imu.AccelerometerRangeMax))
	}
	if imu.GyroscopeRangeMax != nil {
		cmds = append(cmds, messages.NewSetIMUGyroRangeMax(*imu.GyroscopeRangeMax))
	}
	if imu.CompassRangeMax != nil {
		cmds = append(cmds, messages.NewSetIMUCompassRangeMax(*imu.CompassRangeMax))
	}
	if imu.CompassEnabled != nil {
		cmds = append(cmds, messages.NewSetIMUCompassEnabled(*imu.CompassEnabled))
	}

	if imu.Mode != nil {
		mode, ok := sendingModes[*imu.Mode]
		if !ok {
			return cmds, newCompileError(fmt.Sprintf("%q is not a recognized sending mode", *imu.Mode))
		}
		cmds = append(cmds, messages.NewSetIMUSendingMode(mode))
	}

	if imu.DeltaTicks != nil {
		cmds = append(cmds, messages.NewSetIMUSendingDeltaTicks(*imu.DeltaTicks))
	}

	if imu.Data != nil {
		dataMode := messages.IMUDataComponents
		if *imu.Data == "quaternions" {
			dataMode = messages.IMUDataQuaternions
		}
		cmds = append(cmds, messages.NewSetIMUDataMode(dataMode))
	}

	if imu.AccNormThreshold != nil {
		cmds = append(cmds, messages.NewSetIMUAccNormThreshold(*imu.AccNormThreshold))
	}

	if imu.Enabled != nil {
		cmds = append(cmds, messages.NewSetIMUEnabled(*imu.Enabled))
	}

	return cmds, nil
}
