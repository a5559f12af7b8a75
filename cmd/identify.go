package cmd

import (
	"fmt"
	"os"

	"github.com/kozaktomas/face-gate/internal/config"
	"github.com/kozaktomas/face-gate/internal/match"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <image-file>",
	Short: "Resolve a local image against the reference store",
	Long: `Run a matching scan for a local image without going through the
HTTP API. Verification still requires a running recognition service
(RECOGNIZER_URL).

Example:
  face-gate identify query.png`,
	Args: cobra.ExactArgs(1),
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	client, err := newRecognizerClient(cfg)
	if err != nil {
		return err
	}

	img, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading image file: %w", err)
	}

	engine := match.NewEngine(st, client)
	resolved, err := engine.Resolve(cmd.Context(), img)
	if err != nil {
		return err
	}

	if !resolved.Found {
		fmt.Println("No match")
		return nil
	}
	fmt.Printf("Matched: %s\n", resolved.Name)
	return nil
}
