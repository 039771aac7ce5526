// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/duanchangstar/sensei/internal/config"
	"github.com/spf13/cobra"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compile a configuration document and print the emitted command sequence",
	Long: `Validate runs only the config compiler against the document at --config and
prints the resulting command sequence's type tags, one per line, without
opening any socket. Useful for CI and for spot-checking a document before
a live run.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "", "path to the configuration document")
	validateCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := config.LoadYAML(validateConfigPath)
	if err != nil {
		return err
	}

	cmds, compileErr := config.Compile(doc)
	for _, c := range cmds {
		fmt.Println(c.Kind.String())
	}
	return compileErr
}
