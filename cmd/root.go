package cmd

import (
	"github.com/spf13/cobra"
)

var debugMode bool

var rootCmd = &cobra.Command{
	Use:   "rustgate",
	Short: "rustgate - error-tolerance auditor and test wrapper for Rust codebases",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug-level logs")
}
