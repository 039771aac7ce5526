// SPDX-License-Identifier: Apache-2.0

package messages

// Destination is a bitset over the four places a Command can be routed:
// the hardware front-end, the mapping processor, an output backend, or
// the user-control frontend. The daemon's router treats this bitset as
// authoritative for routing.
type Destination uint8

const (
	HardwareFrontend Destination = 1 << iota
	MappingProcessor
	OutputBackend
	UserFrontend
)

func (d Destination) Has(bit Destination) bool { return d&bit != 0 }

// CommandKind enumerates every command variant the system can emit.
type CommandKind int

const (
	SetSensorType CommandKind = iota // selects mapper variant; mapping-only
	SetSensorHWType
	SetHWPin
	SetHWPins
	SetEnabled
	SetSendingMode
	SetSendingDeltaTicks
	SetADCBitResolution
	SetFilterTimeConstant
	SetSliderThreshold
	SetInputScaleRangeLow
	SetInputScaleRangeHigh
	SetRangeLow
	SetRangeHigh
	SetInvert
	SetSendTimestamp
	SetFastMode
	SetMultiplexer
	SetName

	SetDigitalOutputValue
	SetContinuousOutputValue
	SetRangeOutputValue

	EnableSendingPackets

	SetIMUFilterMode
	SetIMUAccelRangeMax
	SetIMUGyroRangeMax
	SetIMUCompassRangeMax
	SetIMUCompassEnabled
	SetIMUSendingMode
	SetIMUSendingDeltaTicks
	SetIMUDataMode
	SetIMUAccNormThreshold
	SetIMUEnabled
	SetIMUParameterBinding

	SetBackendEnabled
	SetBackendRawInputEnabled
	SetBackendHost
	SetBackendPort
	SetBackendBasePath
	SetBackendRawBasePath
)

var commandKindNames = map[CommandKind]string{
	SetSensorType:             "SET_SENSOR_TYPE",
	SetSensorHWType:           "SET_SENSOR_HW_TYPE",
	SetHWPin:                  "SET_HW_PIN",
	SetHWPins:                 "SET_HW_PINS",
	SetEnabled:                "SET_ENABLED",
	SetSendingMode:            "SET_SENDING_MODE",
	SetSendingDeltaTicks:      "SET_SENDING_DELTA_TICKS",
	SetADCBitResolution:       "SET_ADC_BIT_RESOLUTION",
	SetFilterTimeConstant:     "SET_FILTER_TIME_CONSTANT",
	SetSliderThreshold:        "SET_SLIDER_THRESHOLD",
	SetInputScaleRangeLow:     "SET_INPUT_SCALE_RANGE_LOW",
	SetInputScaleRangeHigh:    "SET_INPUT_SCALE_RANGE_HIGH",
	SetRangeLow:               "SET_RANGE_LOW",
	SetRangeHigh:              "SET_RANGE_HIGH",
	SetInvert:                 "SET_INVERT",
	SetSendTimestamp:          "SET_SEND_TIMESTAMP",
	SetFastMode:               "SET_FAST_MODE",
	SetMultiplexer:            "SET_MULTIPLEXER",
	SetName:                   "SET_NAME",
	SetDigitalOutputValue:     "SET_DIGITAL_OUTPUT_VALUE",
	SetContinuousOutputValue:  "SET_CONTINUOUS_OUTPUT_VALUE",
	SetRangeOutputValue:       "SET_RANGE_OUTPUT_VALUE",
	EnableSendingPackets:      "ENABLE_SENDING_PACKETS",
	SetIMUFilterMode:          "SET_IMU_FILTER_MODE",
	SetIMUAccelRangeMax:       "SET_IMU_ACCEL_RANGE_MAX",
	SetIMUGyroRangeMax:        "SET_IMU_GYRO_RANGE_MAX",
	SetIMUCompassRangeMax:     "SET_IMU_COMPASS_RANGE_MAX",
	SetIMUCompassEnabled:      "SET_IMU_COMPASS_ENABLED",
	SetIMUSendingMode:         "SET_IMU_SENDING_MODE",
	SetIMUSendingDeltaTicks:   "SET_IMU_SENDING_DELTA_TICKS",
	SetIMUDataMode:            "SET_IMU_DATA_MODE",
	SetIMUAccNormThreshold:    "SET_IMU_ACC_NORM_THRESHOLD",
	SetIMUEnabled:             "SET_IMU_ENABLED",
	SetIMUParameterBinding:    "SET_IMU_PARAMETER_BINDING",
	SetBackendEnabled:         "SET_BACKEND_ENABLED",
	SetBackendRawInputEnabled: "SET_BACKEND_RAW_INPUT_ENABLED",
	SetBackendHost:            "SET_BACKEND_HOST",
	SetBackendPort:            "SET_BACKEND_PORT",
	SetBackendBasePath:        "SET_BACKEND_BASE_PATH",
	SetBackendRawBasePath:     "SET_BACKEND_RAW_BASE_PATH",
}

func (k CommandKind) String() string {
	if name, ok := commandKindNames[k]; ok {
		return name
	}
	return "UNKNOWN_COMMAND"
}

// SensorKind is the sensor entity's kind.
type SensorKind int

const (
	KindAnalogInput SensorKind = iota
	KindDigitalInput
	KindContinuousInput
	KindDigitalOutput
	KindRangeInput
)

// HardwareKind is the sensor entity's hardware-type refinement.
type HardwareKind int

const (
	HWBinaryIn HardwareKind = iota
	HWBinaryOut
	HWAnalogIn
	HWSteppedOut
	HWMuxOut
	HWNWaySwitch
	HWRotaryEncoder
	HWButton
)

// SendingMode is the sensor entity's sending-mode.
type SendingMode int

const (
	SendOff SendingMode = iota
	SendContinuous
	SendOnValueChanged
	SendToggled
	SendOnPress
	SendOnRelease
)

// BackendKind is the backend entity's type.
type BackendKind int

const (
	BackendOSC BackendKind = iota
	BackendStream
)

// Command is the tagged command message. Exactly one of the typed payload
// fields is meaningful for a given Kind; keeping it a single concrete Go
// type (rather than a tagged interface hierarchy) lets the dispatcher,
// translator and compiler pass it around without an interface allocation
// per command.
type Command struct {
	Base
	Kind        CommandKind
	Destination Destination

	Bool  bool
	Int   int
	Float float64
	Str   string
	Pins  []uint8

	SensorKind   SensorKind
	HardwareKind HardwareKind
	SendingMode  SendingMode
	BackendKind  BackendKind
	MuxID        int
	MuxPin       int
}

func newCommand(index SensorIndex, kind CommandKind, dest Destination) Command {
	return Command{Base: newBase(index), Kind: kind, Destination: dest}
}

func NewSetSensorType(index SensorIndex, kind SensorKind) Command {
	c := newCommand(index, SetSensorType, MappingProcessor)
	c.SensorKind = kind
	return c
}

func NewSetSensorHWType(index SensorIndex, kind HardwareKind) Command {
	c := newCommand(index, SetSensorHWType, HardwareFrontend|MappingProcessor)
	c.HardwareKind = kind
	return c
}

func NewSetHWPin(index SensorIndex, pin uint8) Command {
	c := newCommand(index, SetHWPin, HardwareFrontend|MappingProcessor)
	c.Pins = []uint8{pin}
	return c
}

func NewSetHWPins(index SensorIndex, pins []uint8) Command {
	c := newCommand(index, SetHWPins, HardwareFrontend|MappingProcessor)
	c.Pins = pins
	return c
}

func NewSetEnabled(index SensorIndex, enabled bool) Command {
	c := newCommand(index, SetEnabled, HardwareFrontend|MappingProcessor)
	c.Bool = enabled
	return c
}

func NewSetSendingMode(index SensorIndex, mode SendingMode) Command {
	c := newCommand(index, SetSendingMode, HardwareFrontend|MappingProcessor)
	c.SendingMode = mode
	return c
}

func NewSetSendingDeltaTicks(index SensorIndex, ticks int) Command {
	c := newCommand(index, SetSendingDeltaTicks, HardwareFrontend|MappingProcessor)
	c.Int = ticks
	return c
}

func NewSetADCBitResolution(index SensorIndex, bits int) Command {
	c := newCommand(index, SetADCBitResolution, HardwareFrontend|MappingProcessor)
	c.Int = bits
	return c
}

func NewSetFilterTimeConstant(index SensorIndex, seconds float64) Command {
	c := newCommand(index, SetFilterTimeConstant, MappingProcessor)
	c.Float = seconds
	return c
}

func NewSetSliderThreshold(index SensorIndex, threshold int) Command {
	c := newCommand(index, SetSliderThreshold, MappingProcessor)
	c.Int = threshold
	return c
}

func NewSetInputScaleRangeLow(index SensorIndex, low int) Command {
	c := newCommand(index, SetInputScaleRangeLow, MappingProcessor)
	c.Int = low
	return c
}

func NewSetInputScaleRangeHigh(index SensorIndex, high int) Command {
	c := newCommand(index, SetInputScaleRangeHigh, MappingProcessor)
	c.Int = high
	return c
}

// NewSetRangeLow/NewSetRangeHigh carry the bound as both Int and Float so
// the range variant (integer domain) and the continuous variant (floating
// domain) can each read the representation they need from the same command.
func NewSetRangeLow(index SensorIndex, low float64) Command {
	c := newCommand(index, SetRangeLow, MappingProcessor)
	c.Int = int(low)
	c.Float = low
	return c
}

func NewSetRangeHigh(index SensorIndex, high float64) Command {
	c := newCommand(index, SetRangeHigh, MappingProcessor)
	c.Int = int(high)
	c.Float = high
	return c
}

func NewSetInvert(index SensorIndex, invert bool) Command {
	c := newCommand(index, SetInvert, MappingProcessor)
	c.Bool = invert
	return c
}

func NewSetSendTimestamp(index SensorIndex, send bool) Command {
	c := newCommand(index, SetSendTimestamp, MappingProcessor)
	c.Bool = send
	return c
}

func NewSetFastMode(index SensorIndex, fast bool) Command {
	c := newCommand(index, SetFastMode, MappingProcessor)
	c.Bool = fast
	return c
}

func NewSetMultiplexer(index SensorIndex, muxID, muxPin int) Command {
	c := newCommand(index, SetMultiplexer, MappingProcessor)
	c.MuxID = muxID
	c.MuxPin = muxPin
	return c
}

func NewSetName(index SensorIndex, name string) Command {
	c := newCommand(index, SetName, MappingProcessor)
	c.Str = name
	return c
}

func NewSetDigitalOutputValue(index SensorIndex, value bool) Command {
	c := newCommand(index, SetDigitalOutputValue, HardwareFrontend)
	c.Bool = value
	return c
}

func NewSetContinuousOutputValue(index SensorIndex, value float64) Command {
	c := newCommand(index, SetContinuousOutputValue, HardwareFrontend)
	c.Float = value
	return c
}

func NewSetRangeOutputValue(index SensorIndex, value int) Command {
	c := newCommand(index, SetRangeOutputValue, HardwareFrontend)
	c.Int = value
	return c
}

func NewEnableSendingPackets(enabled bool) Command {
	c := newCommand(-1, EnableSendingPackets, HardwareFrontend)
	c.Bool = enabled
	return c
}

func NewSetBackendEnabled(backendID SensorIndex, enabled bool) Command {
	c := newCommand(backendID, SetBackendEnabled, OutputBackend)
	c.Bool = enabled
	return c
}

func NewSetBackendRawInputEnabled(backendID SensorIndex, enabled bool) Command {
	c := newCommand(backendID, SetBackendRawInputEnabled, OutputBackend)
	c.Bool = enabled
	return c
}

func NewSetBackendHost(backendID SensorIndex, host string) Command {
	c := newCommand(backendID, SetBackendHost, OutputBackend)
	c.Str = host
	return c
}

func NewSetBackendPort(backendID SensorIndex, port int) Command {
	c := newCommand(backendID, SetBackendPort, OutputBackend)
	c.Int = port
	return c
}

func NewSetBackendBasePath(backendID SensorIndex, path string) Command {
	c := newCommand(backendID, SetBackendBasePath, OutputBackend)
	c.Str = path
	return c
}

func NewSetBackendRawBasePath(backendID SensorIndex, path string) Command {
	c := newCommand(backendID, SetBackendRawBasePath, OutputBackend)
	c.Str = path
	return c
}
