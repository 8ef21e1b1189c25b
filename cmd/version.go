package cmd

import (
	"fmt"

	"github.com/goasutlor/flexideploy/constants"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of the flexideploy command",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flexideploy version %s\n", constants.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
