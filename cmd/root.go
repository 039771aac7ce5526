// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	recvPath string
	peerPath string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "sensei",
	Short: "Host-side sensor-acquisition daemon",
	Long: `Sensei drives a reliable ack/retry link to a hardware front-end over a
local-domain datagram socket, maps raw samples through per-sensor
transformation pipelines, and publishes the results to OSC or stdout
backends while accepting live control over its own OSC surface.`,
	Version: buildVersion,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&recvPath, "recv", "/tmp/sensei", "local-domain socket path sensei listens on")
	rootCmd.PersistentFlags().StringVar(&peerPath, "peer", "/tmp/raspa", "local-domain socket path the hardware front-end listens on")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: \"debug\" selects the development logger; any other value uses the production logger at info level")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
