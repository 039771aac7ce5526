// SPDX-License-Identifier: Apache-2.0

package backend

import "github.com/duanchangstar/sensei/pkg/messages"

// StdoutOutput is a debug backend that logs every published value
// through the injected structured logger instead of publishing anywhere.
// It is used for backends declared with `type: "stream"` and as the
// fallback when a configuration declares no backend at all.
type StdoutOutput struct {
	rawEnabled bool
	names      NameResolver
	log        Logger
}

func NewStdoutOutput(rawEnabled bool, names NameResolver, log Logger) *StdoutOutput {
	return &StdoutOutput{rawEnabled: rawEnabled, names: names, log: log}
}

func (b *StdoutOutput) Send(transformed messages.OutputValue, raw messages.Value) {
	name := resolveName(b.names, transformed.Index())
	if b.rawEnabled && raw != nil {
		b.log.Infow("sensor value", "sensor", name, "value", transformed.Transformed, "raw", rawRepr(transformed))
		return
	}
	b.log.Infow("sensor value", "sensor", name, "value", transformed.Transformed)
}
