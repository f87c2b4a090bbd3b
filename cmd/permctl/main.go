// Package main provides permctl, a command-line client for the permission
// service. Configuration comes from PERMSDK_* environment variables or an
// optional config file; results are printed as JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
