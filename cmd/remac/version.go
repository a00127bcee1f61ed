package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remaclabs/remac"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of remac",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("remac version %s\n", strings.TrimSpace(remac.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
