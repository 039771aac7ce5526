// SPDX-License-Identifier: Apache-2.0

package mapping

import (
	"testing"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	sent []messages.OutputValue
}

func (b *recordingBackend) Send(transformed messages.OutputValue, raw messages.Value) {
	b.sent = append(b.sent, transformed)
}

func enable(m *Mapper) {
	m.ApplyCommand(messages.NewSetEnabled(0, true))
}

func TestAnalogMapper_ClipNormaliseAndChangeGate(t *testing.T) {
	m := New(KindAnalog)
	enable(m)
	m.ApplyCommand(messages.NewSetADCBitResolution(5, 12))
	m.ApplyCommand(messages.NewSetInputScaleRangeLow(5, 0))
	m.ApplyCommand(messages.NewSetInputScaleRangeHigh(5, 4095))
	m.ApplyCommand(messages.NewSetSendingMode(5, messages.SendOnValueChanged))

	backend := &recordingBackend{}

	require.Equal(t, messages.OK, m.ProcessInput(messages.NewAnalogValue(5, 2048), backend))
	require.Len(t, backend.sent, 1)
	require.InDelta(t, 0.5001, backend.sent[0].Transformed, 1e-3)

	// same sample again: below epsilon, suppressed
	require.Equal(t, messages.OK, m.ProcessInput(messages.NewAnalogValue(5, 2048), backend))
	require.Len(t, backend.sent, 1)

	require.Equal(t, messages.OK, m.ProcessInput(messages.NewAnalogValue(5, 4095), backend))
	require.Len(t, backend.sent, 2)
	require.InDelta(t, 1.0, backend.sent[1].Transformed, 1e-9)
}

func TestRangeMapper_ClipAndInvert(t *testing.T) {
	m := New(KindRange)
	enable(m)
	m.ApplyCommand(messages.NewSetRangeLow(0, 10))
	m.ApplyCommand(messages.NewSetRangeHigh(0, 20))
	m.ApplyCommand(messages.NewSetInvert(0, true))
	m.ApplyCommand(messages.NewSetSendingMode(0, messages.SendContinuous))

	backend := &recordingBackend{}

	require.Equal(t, messages.OK, m.ProcessInput(messages.NewAnalogValue(0, 25), backend))
	require.Len(t, backend.sent, 1)
	require.Equal(t, 10.0, backend.sent[0].Transformed)

	require.Equal(t, messages.OK, m.ProcessInput(messages.NewAnalogValue(0, 5), backend))
	require.Len(t, backend.sent, 2)
	require.Equal(t, 20.0, backend.sent[1].Transformed)
}

func TestRangeMapper_OnValueChangedSuppressesRepeat(t *testing.T) {
	m := New(KindRange)
	enable(m)
	m.ApplyCommand(messages.NewSetRangeLow(0, 0))
	m.ApplyCommand(messages.NewSetRangeHigh(0, 100))
	m.ApplyCommand(messages.NewSetSendingMode(0, messages.SendOnValueChanged))

	backend := &recordingBackend{}
	m.ProcessInput(messages.NewAnalogValue(0, 50), backend)
	m.ProcessInput(messages.NewAnalogValue(0, 50), backend)
	require.Len(t, backend.sent, 1)
}

func TestContinuousMapper_MirrorsAnalogPipeline(t *testing.T) {
	m := New(KindContinuous)
	enable(m)
	m.ApplyCommand(messages.NewSetSendingMode(0, messages.SendContinuous))
	// defaults: [-pi, pi]

	backend := &recordingBackend{}
	require.Equal(t, messages.OK, m.ProcessInput(messages.NewContinuousValue(0, 0), backend))
	require.Len(t, backend.sent, 1)
	require.InDelta(t, 0.5, backend.sent[0].Transformed, 1e-9)
}

func TestDigitalMapper_NoChangeDetectionGate(t *testing.T) {
	m := New(KindDigital)
	enable(m)
	m.ApplyCommand(messages.NewSetSendingMode(0, messages.SendOnValueChanged))

	backend := &recordingBackend{}
	m.ProcessInput(messages.NewDigitalValue(0, true), backend)
	m.ProcessInput(messages.NewDigitalValue(0, true), backend)
	require.Len(t, backend.sent, 2, "digital variant must emit on every sample regardless of sending mode")
}

func TestDigitalMapper_AnalogCoercionAndInvert(t *testing.T) {
	m := New(KindDigital)
	enable(m)
	m.ApplyCommand(messages.NewSetInvert(0, true))

	backend := &recordingBackend{}
	m.ProcessInput(messages.NewAnalogValue(0, 3), backend)
	require.Len(t, backend.sent, 1)
	require.Equal(t, 0.0, backend.sent[0].Transformed)
}

func TestMapper_DisabledSuppressesAllOutput(t *testing.T) {
	m := New(KindAnalog)
	backend := &recordingBackend{}
	m.ProcessInput(messages.NewAnalogValue(0, 100), backend)
	require.Empty(t, backend.sent)
}

func TestMapper_SetSendingDeltaTicksInvalidClampsAndErrors(t *testing.T) {
	m := New(KindAnalog)
	errKind := m.ApplyCommand(messages.NewSetSendingDeltaTicks(0, 0))
	require.Equal(t, messages.InvalidValue, errKind)
	require.Equal(t, 1, m.deltaTicks)
}

func TestMapper_ReverseSetValuePaths(t *testing.T) {
	m := New(KindAnalog)
	m.ApplyCommand(messages.NewSetInputScaleRangeLow(0, 0))
	m.ApplyCommand(messages.NewSetInputScaleRangeHigh(0, 200))

	cmd, errKind := m.ProcessSetValue(0, messages.NewFloatSetValue(0, 0.5))
	require.Equal(t, messages.OK, errKind)
	require.Equal(t, messages.SetRangeOutputValue, cmd.Kind)
	require.Equal(t, 100, cmd.Int)
}

func TestMapper_UnhandledCommandForSensorType(t *testing.T) {
	m := New(KindDigital)
	errKind := m.ApplyCommand(messages.NewSetADCBitResolution(0, 12))
	require.Equal(t, messages.UnhandledCommandForSensorType, errKind)
}
