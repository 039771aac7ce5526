// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildVersion is overridden with -ldflags "-X github.com/duanchangstar/sensei/cmd.buildVersion=..."
// at release build time; development builds report "dev".
var buildVersion = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(buildVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
