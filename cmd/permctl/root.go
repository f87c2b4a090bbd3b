package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/permsdk"
	"github.com/turtacn/permsdk/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "permctl",
	Short: "Command-line client for the permission service",
	Long: `permctl performs permission checks, grants, revocations, and resource
limit operations against a permission service. Connection settings come from
PERMSDK_* environment variables or a config file passed with --config.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file")
	rootCmd.AddCommand(checkCmd, grantCmd, revokeCmd, limitCmd, usageCmd)
}

// newClient builds an SDK client from the environment and --config.
func newClient() (*permsdk.Client, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return permsdk.New(cfg)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
