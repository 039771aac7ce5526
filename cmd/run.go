// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/duanchangstar/sensei/internal/config"
	"github.com/duanchangstar/sensei/internal/daemon"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runConfigPath string
	runVerifyAcks bool
	controlPort   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load a configuration document and run the daemon until signalled",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to the configuration document")
	runCmd.Flags().BoolVar(&runVerifyAcks, "verify-acks", true, "require device acks before advancing the send list")
	runCmd.Flags().IntVar(&controlPort, "control-port", 23024, "UDP port the OSC user-control listener binds")
	runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	if level == "debug" {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func runRun(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	doc, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	d := daemon.New(daemon.Config{
		RecvPath:    recvPath,
		SendPath:    peerPath,
		VerifyAcks:  runVerifyAcks,
		ControlPort: controlPort,
		Document:    doc,
	}, log)

	if err := d.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	log.Infow("sensei started", "recv", recvPath, "peer", peerPath, "control_port", controlPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutdown signal received")
	d.Shutdown()
	log.Infow("sensei stopped")
	return nil
}
