// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"testing"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Infow(string, ...interface{})  {}
func (noopLogger) Warnw(string, ...interface{})  {}
func (noopLogger) Errorw(string, ...interface{}) {}

type fakeNames struct{ names map[messages.SensorIndex]string }

func (f fakeNames) Name(index messages.SensorIndex) string { return f.names[index] }

type recordingSender struct {
	calls []messages.OutputValue
}

func (r *recordingSender) Send(transformed messages.OutputValue, raw messages.Value) {
	r.calls = append(r.calls, transformed)
}

func TestSet_FallsBackToStdoutWhenNoBackendConfigured(t *testing.T) {
	s := NewSet(fakeNames{}, noopLogger{})
	// exercise the fallback path directly; it should not panic and should
	// lazily construct a stdout backend on first send.
	s.Send(messages.NewOutputValue(1, 0.5), messages.NewAnalogValue(1, 512))
	require.NotNil(t, s.fallback)
}

func TestSet_DisabledBackendIsSkipped(t *testing.T) {
	s := NewSet(fakeNames{}, noopLogger{})
	s.ApplyCommand(messages.NewSetBackendEnabled(0, false))
	s.ApplyCommand(messages.NewSetBackendHost(0, "localhost"))
	s.ApplyCommand(messages.NewSetBackendPort(0, 9000))
	s.ApplyCommand(messages.NewSetBackendBasePath(0, "/s"))

	// a configured-but-disabled backend must not fall back to stdout
	// either: it is explicitly muted, not absent.
	s.Send(messages.NewOutputValue(2, 0.25), nil)
	require.Nil(t, s.fallback)
}

func TestSet_InfersOSCKindFromHost(t *testing.T) {
	s := NewSet(fakeNames{}, noopLogger{})
	s.ApplyCommand(messages.NewSetBackendEnabled(0, true))
	s.ApplyCommand(messages.NewSetBackendHost(0, "localhost"))
	s.ApplyCommand(messages.NewSetBackendPort(0, 9000))
	s.ApplyCommand(messages.NewSetBackendBasePath(0, "/s"))

	e := s.entries[0]
	require.True(t, e.isOSC())
}

func TestSet_DefaultsToStreamWithoutHost(t *testing.T) {
	s := NewSet(fakeNames{}, noopLogger{})
	s.ApplyCommand(messages.NewSetBackendEnabled(0, true))

	e := s.entries[0]
	require.False(t, e.isOSC())
}

func TestResolveName_FallsBackToIndexWhenUnnamed(t *testing.T) {
	require.Equal(t, "5", resolveName(fakeNames{names: map[messages.SensorIndex]string{}}, 5))
	require.Equal(t, "slider", resolveName(fakeNames{names: map[messages.SensorIndex]string{5: "slider"}}, 5))
}

func TestStdoutOutput_SendDoesNotPanic(t *testing.T) {
	out := NewStdoutOutput(true, fakeNames{}, noopLogger{})
	out.Send(messages.NewOutputValue(0, 0.75), messages.NewAnalogValue(0, 3000))
}

func TestUserControlListener_RejectsOutOfRangePort(t *testing.T) {
	_, err := NewUserControlListener(999, nil, nil, noopLogger{})
	require.Error(t, err)

	_, err = NewUserControlListener(70000, nil, nil, noopLogger{})
	require.Error(t, err)
}

type fakeSink struct{ pushed []messages.Command }

func (f *fakeSink) PushCommand(cmd messages.Command) { f.pushed = append(f.pushed, cmd) }

type fakeSetValueDispatcher struct{ next *messages.Command }

func (f *fakeSetValueDispatcher) DispatchSetValue(index messages.SensorIndex, value messages.Value) *messages.Command {
	return f.next
}

func TestUserControlListener_SetEnabledPushesDirectCommand(t *testing.T) {
	sink := &fakeSink{}
	l, err := NewUserControlListener(23024, sink, &fakeSetValueDispatcher{}, noopLogger{})
	require.NoError(t, err)

	l.handleSetEnabled(&osc.Message{Address: "/set_enabled", Arguments: []interface{}{int32(4), int32(1)}})
	require.Len(t, sink.pushed, 1)
	require.Equal(t, messages.SetEnabled, sink.pushed[0].Kind)
	require.True(t, sink.pushed[0].Bool)
}

func TestUserControlListener_SetOutputRoutesThroughDispatcher(t *testing.T) {
	sink := &fakeSink{}
	cmd := messages.NewSetContinuousOutputValue(4, 0.5)
	l, err := NewUserControlListener(23024, sink, &fakeSetValueDispatcher{next: &cmd}, noopLogger{})
	require.NoError(t, err)

	l.handleSetOutput(&osc.Message{Address: "/set_output", Arguments: []interface{}{int32(4), float32(0.5)}})
	require.Len(t, sink.pushed, 1)
	require.Equal(t, messages.SetContinuousOutputValue, sink.pushed[0].Kind)
}

func TestUserControlListener_SetOutputDroppedWhenDispatcherRefuses(t *testing.T) {
	sink := &fakeSink{}
	l, err := NewUserControlListener(23024, sink, &fakeSetValueDispatcher{next: nil}, noopLogger{})
	require.NoError(t, err)

	l.handleSetOutput(&osc.Message{Address: "/set_output", Arguments: []interface{}{int32(4), float32(0.5)}})
	require.Empty(t, sink.pushed)
}
