package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-gate",
	Short: "A biometric identification gateway",
	Long: `Face Gate accepts face images, matches them against previously
enrolled reference faces, and resolves the matched identity to a display
name together with estimated attributes (emotion, age). Verification is
delegated to a DeepFace-compatible recognition service.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
