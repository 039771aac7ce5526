// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCompile_BasicConfig(t *testing.T) {
	doc := &Document{
		Backends: []BackendDoc{
			{ID: ptr(0), Type: ptr("osc"), Enabled: ptr(true), Host: ptr("h"), Port: ptr(9000), BasePath: ptr("/s")},
		},
		Sensors: []SensorDoc{
			{ID: ptr(3), SensorType: ptr("analog_input"), Enabled: ptr(true), Mode: ptr("on_value_changed"), Range: []float64{0, 1023}},
		},
	}

	cmds, err := Compile(doc)
	require.NoError(t, err)

	kinds := make([]messages.CommandKind, len(cmds))
	for i, c := range cmds {
		kinds[i] = c.Kind
	}
	require.Equal(t, []messages.CommandKind{
		messages.EnableSendingPackets,
		messages.SetBackendEnabled,
		messages.SetBackendHost,
		messages.SetBackendPort,
		messages.SetBackendBasePath,
		messages.SetSensorType,
		messages.SetEnabled,
		messages.SetSendingMode,
		messages.SetInputScaleRangeLow,
		messages.SetInputScaleRangeHigh,
		messages.EnableSendingPackets,
	}, kinds)

	require.False(t, cmds[0].Bool)
	require.True(t, cmds[len(cmds)-1].Bool)
	require.Equal(t, messages.KindAnalogInput, cmds[5].SensorKind)
	require.Equal(t, 0, cmds[8].Int)
	require.Equal(t, 1023, cmds[9].Int)
}

func TestCompile_MissingSensorID(t *testing.T) {
	doc := &Document{
		Sensors: []SensorDoc{
			{SensorType: ptr("analog_input")},
		},
	}

	cmds, err := Compile(doc)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, messages.ParameterError, compileErr.Kind)

	require.Len(t, cmds, 1)
	require.Equal(t, messages.EnableSendingPackets, cmds[0].Kind)
	require.False(t, cmds[0].Bool)
}

func TestCompile_MissingBackendID(t *testing.T) {
	doc := &Document{
		Backends: []BackendDoc{{Type: ptr("osc")}},
	}

	cmds, err := Compile(doc)
	require.Error(t, err)
	require.Len(t, cmds, 1)
}

func TestCompile_UnknownSensorTypeAborts(t *testing.T) {
	doc := &Document{
		Sensors: []SensorDoc{{ID: ptr(1), SensorType: ptr("not_a_real_type")}},
	}

	_, err := Compile(doc)
	require.Error(t, err)
}

func TestCompile_SensorHardwareOrder(t *testing.T) {
	doc := &Document{
		Sensors: []SensorDoc{{
			ID: ptr(7),
			Hardware: &HardwareDoc{
				PinIndex:     ptr(4),
				HardwareType: ptr("analog_input_pin"),
				DeltaTicks:   ptr(2),
			},
		}},
	}

	cmds, err := Compile(doc)
	require.NoError(t, err)

	require.Equal(t, messages.SetHWPin, cmds[1].Kind)
	require.Equal(t, messages.SetSensorHWType, cmds[2].Kind)
	require.Equal(t, messages.SetSendingDeltaTicks, cmds[3].Kind)
}

func TestCompile_IMUParameterBinding(t *testing.T) {
	doc := &Document{
		Sensors: []SensorDoc{{ID: ptr(2), Parameter: ptr("yaw")}},
	}

	cmds, err := Compile(doc)
	require.NoError(t, err)
	require.Equal(t, messages.SetIMUParameterBinding, cmds[1].Kind)
	require.Equal(t, "yaw", cmds[1].Str)
	require.Equal(t, messages.SensorIndex(2), cmds[1].Index())
}

func TestCompile_IMUQuaternionDataMode(t *testing.T) {
	doc := &Document{
		IMU: IMUDoc{
			FilterMode: ptr("kalman"),
			Data:       ptr("quaternions"),
			Enabled:    ptr(true),
		},
	}

	cmds, err := Compile(doc)
	require.NoError(t, err)
	require.Equal(t, int(messages.IMUFilterKalman), cmds[1].Int)
	require.Equal(t, messages.SetIMUDataMode, cmds[2].Kind)
	require.Equal(t, int(messages.IMUDataQuaternions), cmds[2].Int)
	require.True(t, cmds[3].Bool)
}

func TestCompile_IMUUnrecognizedDataModeDefaultsToComponents(t *testing.T) {
	doc := &Document{IMU: IMUDoc{Data: ptr("garbage")}}

	cmds, err := Compile(doc)
	require.NoError(t, err)
	require.Equal(t, int(messages.IMUDataComponents), cmds[1].Int)
}

func TestCompile_EmptyDocumentOnlyBracketingCommands(t *testing.T) {
	cmds, err := Compile(&Document{})
	require.NoError(t, err)
	require.Len(t, cmds, 2)
}
