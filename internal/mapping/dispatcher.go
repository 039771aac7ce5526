// SPDX-License-Identifier: Apache-2.0

package mapping

import (
	"sync"

	"github.com/duanchangstar/sensei/pkg/messages"
)

// Logger is the structured-logging capability the dispatcher needs: one
// line per swallowed mapper error, never a panic.
type Logger interface {
	Warnw(msg string, keysAndValues ...interface{})
}

// maxSensorIndex bounds the dispatcher's slot array. Sensor ids in this
// codebase's configurations are small, dense integers; a bounded array
// keeps dispatch allocation-free on the hot path.
const maxSensorIndex = 256

// imuState accumulates the singleton IMU entity's configuration. It has
// no transformation pipeline of its own — IMU commands are mapping-only
// bookkeeping plus, per the command translator, entirely absorbed rather
// than forwarded to hardware — so a flat struct updated in place is
// enough, unlike the per-sensor Mapper variants.
type imuState struct {
	filterMode       messages.IMUFilterMode
	accelRangeMax    float64
	gyroRangeMax     float64
	compassRangeMax  float64
	compassEnabled   bool
	sendingMode      messages.SendingMode
	deltaTicks       int
	dataMode         messages.IMUDataMode
	accNormThreshold float64
	enabled          bool
	yawIndex         messages.SensorIndex
	pitchIndex       messages.SensorIndex
	rollIndex        messages.SensorIndex
}

// Dispatcher owns one Mapper per sensor index and routes commands and
// values to it, serialising all access so a Mapper never observes
// concurrent calls from more than one goroutine. It also absorbs the
// singleton IMU entity's commands, which address messages.IMUIndex rather
// than a slot in the Mapper array.
type Dispatcher struct {
	mu      sync.Mutex
	mappers [maxSensorIndex]*Mapper
	imu     imuState
	log     Logger
}

func NewDispatcher(log Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

func slotFor(index messages.SensorIndex) (int, bool) {
	if index < 0 || int(index) >= maxSensorIndex {
		return 0, false
	}
	return int(index), true
}

func kindFromSensorKind(k messages.SensorKind) (Kind, bool) {
	switch k {
	case messages.KindDigitalInput, messages.KindDigitalOutput:
		return KindDigital, true
	case messages.KindAnalogInput:
		return KindAnalog, true
	case messages.KindRangeInput:
		return KindRange, true
	case messages.KindContinuousInput:
		return KindContinuous, true
	default:
		return 0, false
	}
}

// Dispatch routes a single command: SET_SENSOR_TYPE instantiates or
// replaces the slot's mapper (carrying forward any common header fields
// already applied), everything else is forwarded to the mapper occupying
// command.Index(), creating a placeholder mapper first if none exists yet
// — the compiler emits common-header commands like SET_NAME ahead of
// SET_SENSOR_TYPE, so a command can legitimately arrive before the slot's
// real Kind is known. Errors are logged, never returned — a bad command
// for one sensor must not stall the others.
func (d *Dispatcher) Dispatch(cmd messages.Command) {
	if cmd.Index() == messages.IMUIndex {
		d.mu.Lock()
		d.applyIMUCommand(cmd)
		d.mu.Unlock()
		return
	}

	if cmd.Kind == messages.SetIMUParameterBinding {
		d.mu.Lock()
		d.bindIMUParameter(cmd)
		d.mu.Unlock()
		return
	}

	slot, ok := slotFor(cmd.Index())
	if !ok {
		d.log.Warnw("command addressed to out-of-range sensor index", "index", cmd.Index(), "kind", cmd.Kind)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if cmd.Kind == messages.SetSensorType {
		kind, known := kindFromSensorKind(cmd.SensorKind)
		if !known {
			d.log.Warnw("unknown sensor_type for SET_SENSOR_TYPE", "index", cmd.Index(), "sensor_kind", cmd.SensorKind)
			return
		}
		m := New(kind)
		if existing := d.mappers[slot]; existing != nil {
			m.common = existing.common
		}
		d.mappers[slot] = m
		return
	}

	m := d.mappers[slot]
	if m == nil {
		m = New(KindDigital)
		d.mappers[slot] = m
	}

	if errKind := m.ApplyCommand(cmd); errKind != messages.OK {
		d.log.Warnw("mapper rejected command", "index", cmd.Index(), "kind", cmd.Kind, "error", errKind.String())
	}
}

// applyIMUCommand updates the singleton IMU state for a command addressed
// to messages.IMUIndex. Callers must hold d.mu.
func (d *Dispatcher) applyIMUCommand(cmd messages.Command) {
	switch cmd.Kind {
	case messages.SetIMUFilterMode:
		d.imu.filterMode = messages.IMUFilterMode(cmd.Int)
	case messages.SetIMUAccelRangeMax:
		d.imu.accelRangeMax = cmd.Float
	case messages.SetIMUGyroRangeMax:
		d.imu.gyroRangeMax = cmd.Float
	case messages.SetIMUCompassRangeMax:
		d.imu.compassRangeMax = cmd.Float
	case messages.SetIMUCompassEnabled:
		d.imu.compassEnabled = cmd.Bool
	case messages.SetIMUSendingMode:
		d.imu.sendingMode = cmd.SendingMode
	case messages.SetIMUSendingDeltaTicks:
		d.imu.deltaTicks = cmd.Int
	case messages.SetIMUDataMode:
		d.imu.dataMode = messages.IMUDataMode(cmd.Int)
	case messages.SetIMUAccNormThreshold:
		d.imu.accNormThreshold = cmd.Float
	case messages.SetIMUEnabled:
		d.imu.enabled = cmd.Bool
	default:
		d.log.Warnw("unhandled imu command", "kind", cmd.Kind)
	}
}

// bindIMUParameter records which real sensor index carries the derived
// yaw/pitch/roll axis named by a sensor's "parameter" key.
// Callers must hold d.mu.
func (d *Dispatcher) bindIMUParameter(cmd messages.Command) {
	switch cmd.Str {
	case "yaw":
		d.imu.yawIndex = cmd.Index()
	case "pitch":
		d.imu.pitchIndex = cmd.Index()
	case "roll":
		d.imu.rollIndex = cmd.Index()
	default:
		d.log.Warnw("unknown imu parameter binding", "axis", cmd.Str, "index", cmd.Index())
	}
}

// DispatchValue routes an inbound sample to the mapper at value.Index(),
// which computes a transformed output and sends it through backend.
func (d *Dispatcher) DispatchValue(value messages.Value, backend Backend) {
	slot, ok := slotFor(value.Index())
	if !ok {
		d.log.Warnw("value addressed to out-of-range sensor index", "index", value.Index())
		return
	}

	d.mu.Lock()
	m := d.mappers[slot]
	d.mu.Unlock()

	if m == nil {
		d.log.Warnw("value addressed to unconfigured sensor", "index", value.Index())
		return
	}

	if errKind := m.ProcessInput(value, backend); errKind != messages.OK {
		d.log.Warnw("mapper rejected value", "index", value.Index(), "error", errKind.String())
	}
}

// DispatchSetValue routes a user-originated set-value request to the
// mapper at index, returning the device-bound command to translate (if
// any). The caller re-enters it through the command translator.
func (d *Dispatcher) DispatchSetValue(index messages.SensorIndex, value messages.Value) *messages.Command {
	slot, ok := slotFor(index)
	if !ok {
		d.log.Warnw("set-value addressed to out-of-range sensor index", "index", index)
		return nil
	}

	d.mu.Lock()
	m := d.mappers[slot]
	d.mu.Unlock()

	if m == nil {
		d.log.Warnw("set-value addressed to unconfigured sensor", "index", index)
		return nil
	}

	cmd, errKind := m.ProcessSetValue(index, value)
	if errKind != messages.OK {
		d.log.Warnw("mapper rejected set-value", "index", index, "error", errKind.String())
		return nil
	}
	return cmd
}

// Name returns the sensor name set via SET_NAME for the mapper at index,
// or "" if the slot is unconfigured or was never named. Output backends
// use this to build their publish path.
func (d *Dispatcher) Name(index messages.SensorIndex) string {
	slot, ok := slotFor(index)
	if !ok {
		return ""
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.mappers[slot]
	if m == nil {
		return ""
	}
	return m.name
}

// Snapshot produces the config-command snapshot for the sensor at index,
// used to re-push state to a newly attached backend or peer. Returns nil
// if the slot is unconfigured.
func (d *Dispatcher) Snapshot(index messages.SensorIndex) []messages.Command {
	slot, ok := slotFor(index)
	if !ok {
		return nil
	}

	d.mu.Lock()
	m := d.mappers[slot]
	d.mu.Unlock()

	if m == nil {
		return nil
	}
	return m.EmitConfigCommands(index)
}
