// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		packet Packet
	}{
		{"reset system", NewResetSystem(1)},
		{"start system", NewStartSystem(2)},
		{"stop system", NewStopSystem(3)},
		{"add controller", NewAddController(4, 7, 2)},
		{"mute controller", NewMuteController(5, 3, true)},
		{"unmute controller", NewMuteController(6, 3, false)},
		{"set notification mode", NewSetNotificationMode(7, 9, NotifyOnValueChange)},
		{"set controller tick rate", NewSetControllerTickRate(8, 9, 4)},
		{"set analog resolution", NewSetAnalogResolution(9, 9, 12)},
		{"set value", NewSetValue(10, 9, -1024)},
		{"ack ok", NewAck(11, 10, AckStatusOK)},
		{"ack fault", NewAck(12, 10, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.packet)
			require.NoError(t, err)
			require.Len(t, encoded, PacketSize)

			decoded, ok := Decode(encoded)
			require.True(t, ok)
			require.Equal(t, tt.packet.Command, decoded.Command)
			require.Equal(t, tt.packet.SequenceNo, decoded.SequenceNo)
			require.Equal(t, tt.packet.Payload, decoded.Payload)
		})
	}
}

func TestEncode_AddPinsToController_Chunked(t *testing.T) {
	pins := []uint8{1, 2, 3, 4, 5}
	packet, err := NewAddPinsToController(1, 5, pins)
	require.NoError(t, err)

	encoded, err := Encode(packet)
	require.NoError(t, err)

	decoded, ok := Decode(encoded)
	require.True(t, ok)
	got := decoded.Payload.(AddPinsToControllerPayload)
	require.Equal(t, pins, got.Pins)
}

func TestEncode_AddPinsToController_OverflowIsEncodingError(t *testing.T) {
	pins := make([]uint8, PinsPerPacket+1)
	_, err := NewAddPinsToController(1, 1, pins)
	require.Error(t, err)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
}

func TestDecode_CRCMismatchIsRejected(t *testing.T) {
	encoded, err := Encode(NewResetSystem(1))
	require.NoError(t, err)
	encoded[len(encoded)-1] ^= 0xFF

	_, ok := Decode(encoded)
	require.False(t, ok)
}

func TestDecode_WrongSizeIsRejected(t *testing.T) {
	_, ok := Decode([]byte{1, 2, 3})
	require.False(t, ok)
}
