package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/guessthechild/cmd/cli/caption"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/spf13/cobra"
	"io/fs"
	"os"
)

func init() {
	// The .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(caption.Group)
	rootCmd.AddCommand(caption.Caption)
}

var rootCmd = &cobra.Command{ //nolint:exhaustruct // cobra commands only set what they need
	Use:  "guessthechild-cli",
	Long: `Command line utilities for Guess The Child https://github.com/myrjola/guessthechild`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
