package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/vellum"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vellum",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vellum version %s\n", strings.TrimSpace(vellum.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
