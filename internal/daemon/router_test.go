// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"testing"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/stretchr/testify/require"
)

type recordingHW struct{ pushed []messages.Command }

func (r *recordingHW) PushCommand(cmd messages.Command) { r.pushed = append(r.pushed, cmd) }

type recordingMapper struct{ dispatched []messages.Command }

func (r *recordingMapper) Dispatch(cmd messages.Command) { r.dispatched = append(r.dispatched, cmd) }

type recordingBackends struct{ applied []messages.Command }

func (r *recordingBackends) ApplyCommand(cmd messages.Command) { r.applied = append(r.applied, cmd) }

func TestRoute_FansOutByDestinationBits(t *testing.T) {
	hw, mapper, backends := &recordingHW{}, &recordingMapper{}, &recordingBackends{}

	route(messages.NewSetEnabled(3, true), hw, mapper, backends)
	require.Len(t, hw.pushed, 1)
	require.Len(t, mapper.dispatched, 1)
	require.Empty(t, backends.applied)
}

func TestRoute_BackendOnlyCommandSkipsHardwareAndMapper(t *testing.T) {
	hw, mapper, backends := &recordingHW{}, &recordingMapper{}, &recordingBackends{}

	route(messages.NewSetBackendHost(0, "localhost"), hw, mapper, backends)
	require.Empty(t, hw.pushed)
	require.Empty(t, mapper.dispatched)
	require.Len(t, backends.applied, 1)
}

func TestRoute_MappingOnlyCommandSkipsHardwareAndBackend(t *testing.T) {
	hw, mapper, backends := &recordingHW{}, &recordingMapper{}, &recordingBackends{}

	route(messages.NewSetSensorType(1, messages.KindAnalogInput), hw, mapper, backends)
	require.Empty(t, hw.pushed)
	require.Len(t, mapper.dispatched, 1)
	require.Empty(t, backends.applied)
}
