// SPDX-License-Identifier: Apache-2.0

package translate

import (
	"testing"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/duanchangstar/sensei/pkg/wire"
	"github.com/stretchr/testify/require"
)

type fakeLogger struct{ warnings int }

func (f *fakeLogger) Warnw(msg string, keysAndValues ...interface{}) { f.warnings++ }

func TestTranslate_SetEnabled_MapsToMuteController(t *testing.T) {
	tr := New(&fakeLogger{})
	packets, err := tr.Translate(messages.NewSetEnabled(3, true))
	require.NoError(t, err)
	require.Len(t, packets, 1)
	require.Equal(t, wire.CmdMuteController, packets[0].Command)
	payload := packets[0].Payload.(wire.MuteControllerPayload)
	require.False(t, payload.Muted)
}

func TestTranslate_SetHWPins_FansOutInOrder(t *testing.T) {
	tr := New(&fakeLogger{})
	pins := make([]uint8, wire.PinsPerPacket*2+3)
	for i := range pins {
		pins[i] = uint8(i)
	}

	packets, err := tr.Translate(messages.NewSetHWPins(5, pins))
	require.NoError(t, err)
	require.Len(t, packets, 3)

	var got []uint8
	for _, p := range packets {
		payload := p.Payload.(wire.AddPinsToControllerPayload)
		require.LessOrEqual(t, len(payload.Pins), wire.PinsPerPacket)
		got = append(got, payload.Pins...)
	}
	require.Equal(t, pins, got)
}

func TestTranslate_SetSendingMode_Off_ProducesNoPacket(t *testing.T) {
	tr := New(&fakeLogger{})
	packets, err := tr.Translate(messages.NewSetSendingMode(1, messages.SendOff))
	require.NoError(t, err)
	require.Nil(t, packets)
}

func TestTranslate_SetSendingMode_GestureModesMapToOnValueChange(t *testing.T) {
	tr := New(&fakeLogger{})
	for _, mode := range []messages.SendingMode{messages.SendToggled, messages.SendOnPress, messages.SendOnRelease} {
		packets, err := tr.Translate(messages.NewSetSendingMode(1, mode))
		require.NoError(t, err)
		require.Len(t, packets, 1)
		payload := packets[0].Payload.(wire.SetNotificationModePayload)
		require.Equal(t, wire.NotifyOnValueChange, payload.Mode)
	}
}

func TestTranslate_SetContinuousOutputValue_ScalesBy256(t *testing.T) {
	tr := New(&fakeLogger{})
	packets, err := tr.Translate(messages.NewSetContinuousOutputValue(2, 0.5))
	require.NoError(t, err)
	require.Len(t, packets, 1)
	payload := packets[0].Payload.(wire.SetValuePayload)
	require.Equal(t, int32(128), payload.Value)
}

func TestTranslate_EnableSendingPackets_MapsToStartStop(t *testing.T) {
	tr := New(&fakeLogger{})

	packets, err := tr.Translate(messages.NewEnableSendingPackets(true))
	require.NoError(t, err)
	require.Len(t, packets, 1)
	require.Equal(t, wire.CmdStartSystem, packets[0].Command)

	packets, err = tr.Translate(messages.NewEnableSendingPackets(false))
	require.NoError(t, err)
	require.Len(t, packets, 1)
	require.Equal(t, wire.CmdStopSystem, packets[0].Command)
}

func TestTranslate_MappingOnlyCommand_ProducesNoPacket(t *testing.T) {
	tr := New(&fakeLogger{})
	packets, err := tr.Translate(messages.NewSetInvert(1, true))
	require.NoError(t, err)
	require.Nil(t, packets)
}

func TestTranslate_UnmappedHardwareKindIsDroppedWithWarning(t *testing.T) {
	log := &fakeLogger{}
	tr := New(log)
	packets, err := tr.Translate(messages.NewSetSensorHWType(1, messages.HardwareKind(99)))
	require.NoError(t, err)
	require.Nil(t, packets)
	require.Equal(t, 1, log.warnings)
}
