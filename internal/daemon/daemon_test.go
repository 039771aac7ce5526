// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/duanchangstar/sensei/internal/config"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Infow(string, ...interface{})  {}
func (noopLogger) Warnw(string, ...interface{})  {}
func (noopLogger) Errorw(string, ...interface{}) {}

func ptr[T any](v T) *T { return &v }

func TestDaemon_StartAndShutdownDoNotHang(t *testing.T) {
	dir := t.TempDir()
	recvPath := filepath.Join(dir, "sensei.sock")
	sendPath := filepath.Join(dir, "device.sock")

	doc := &config.Document{
		Sensors: []config.SensorDoc{{
			ID:         ptr(0),
			SensorType: ptr("analog_input"),
			Enabled:    ptr(true),
		}},
	}

	d := New(Config{
		RecvPath:    recvPath,
		SendPath:    sendPath,
		VerifyAcks:  false,
		ControlPort: 23099,
		Document:    doc,
	}, noopLogger{})

	require.NoError(t, d.Start())

	done := make(chan struct{})
	go func() {
		d.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete in time")
	}
}

func TestDaemon_StartSurfacesCompileErrorButStaysUp(t *testing.T) {
	dir := t.TempDir()
	recvPath := filepath.Join(dir, "sensei.sock")
	sendPath := filepath.Join(dir, "device.sock")

	// a sensor with no id cannot be compiled; Start should propagate the
	// failure rather than silently running with a half-applied config.
	doc := &config.Document{
		Sensors: []config.SensorDoc{{SensorType: ptr("analog_input")}},
	}

	d := New(Config{
		RecvPath:    recvPath,
		SendPath:    sendPath,
		VerifyAcks:  false,
		ControlPort: 23098,
		Document:    doc,
	}, noopLogger{})

	require.Error(t, d.Start())
	d.Shutdown()
}
