// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"sync"

	"github.com/duanchangstar/sensei/pkg/messages"
	"github.com/hypebeast/go-osc/osc"
)

// OSCOutput publishes transformed values to {basePath}/{name}
// over OSC/UDP, and raw values to {rawBasePath}/{name} when enabled. The
// UDP client is opened lazily on the first send, mirroring the link
// engine's lazy send-socket connect rather than failing backend
// construction when the peer isn't listening yet.
type OSCOutput struct {
	host        string
	port        int
	basePath    string
	rawBasePath string
	rawEnabled  bool

	names NameResolver
	log   Logger

	mu     sync.Mutex
	client *osc.Client
}

func NewOSCOutput(host string, port int, basePath, rawBasePath string, rawEnabled bool, names NameResolver, log Logger) *OSCOutput {
	return &OSCOutput{
		host:        host,
		port:        port,
		basePath:    basePath,
		rawBasePath: rawBasePath,
		rawEnabled:  rawEnabled,
		names:       names,
		log:         log,
	}
}

func (b *OSCOutput) clientHandle() *osc.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		b.client = osc.NewClient(b.host, b.port)
	}
	return b.client
}

// Send publishes transformed, and raw alongside it when raw-input
// publishing is enabled and basePath for raw values is configured.
func (b *OSCOutput) Send(transformed messages.OutputValue, raw messages.Value) {
	name := resolveName(b.names, transformed.Index())
	client := b.clientHandle()

	msg := osc.NewMessage(b.basePath + "/" + name)
	msg.Append(float32(transformed.Transformed))
	if err := client.Send(msg); err != nil {
		b.log.Warnw("osc output send failed", "sensor", name, "error", err)
	}

	if !b.rawEnabled || b.rawBasePath == "" || raw == nil {
		return
	}

	rawMsg := osc.NewMessage(b.rawBasePath + "/" + name)
	if transformed.RawIsFloat {
		rawMsg.Append(float32(transformed.RawFloat))
	} else {
		rawMsg.Append(int32(transformed.RawInt))
	}
	if err := client.Send(rawMsg); err != nil {
		b.log.Warnw("osc raw output send failed", "sensor", name, "error", err)
	}
}
