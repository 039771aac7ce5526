// SPDX-License-Identifier: Apache-2.0

package config

import "github.com/duanchangstar/sensei/pkg/messages"

var sensorTypes = map[string]messages.SensorKind{
	"analog_input":     messages.KindAnalogInput,
	"digital_input":    messages.KindDigitalInput,
	"continuous_input": messages.KindContinuousInput,
	"digital_output":   messages.KindDigitalOutput,
	"range_input":       messages.KindRangeInput,
}

var hardwareTypes = map[string]messages.HardwareKind{
	"digital_input_pin":  messages.HWBinaryIn,
	"digital_output_pin": messages.HWBinaryOut,
	"analog_input_pin":   messages.HWAnalogIn,
	"stepped_output_pin": messages.HWSteppedOut,
	"mux_output_pin":     messages.HWMuxOut,
	"n_way_switch":       messages.HWNWaySwitch,
	"rotary_encoder":     messages.HWRotaryEncoder,
	"button":             messages.HWButton,
}

// sendingModes covers the string values accepted for a sensor's "mode" key
// and the IMU's "mode" key alike.
var sendingModes = map[string]messages.SendingMode{
	"continuous":       messages.SendContinuous,
	"on_value_changed": messages.SendOnValueChanged,
	"toggled":          messages.SendToggled,
	"on_press":         messages.SendOnPress,
	"on_release":       messages.SendOnRelease,
	"off":              messages.SendOff,
}

var imuFilterModes = map[string]messages.IMUFilterMode{
	"no_orientation": messages.IMUFilterNone,
	"kalman":         messages.IMUFilterKalman,
	"q_comp":         messages.IMUFilterQComp,
	"q_grad":         messages.IMUFilterQGrad,
}

var backendTypes = map[string]messages.BackendKind{
	"osc":    messages.BackendOSC,
	"stream": messages.BackendStream,
}

// imuParameterAxes is the set of virtual-pin bindings a sensor's
// "parameter" key may name, binding it to one of the IMU's derived axes.
var imuParameterAxes = map[string]bool{
	"yaw":   true,
	"pitch": true,
	"roll":  true,
}
