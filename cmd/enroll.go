package cmd

import (
	"fmt"
	"os"

	"github.com/kozaktomas/face-gate/internal/config"
	"github.com/kozaktomas/face-gate/internal/enroll"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <image-file>",
	Short: "Enroll a reference face from a local image file",
	Long: `Enroll a single reference face into the store.

Example:
  face-gate enroll --no 001 --id u1 --name "Alice" faceA.png`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("no", "", "Sequence number for the reference (required)")
	enrollCmd.Flags().String("id", "", "Identity tag (required)")
	enrollCmd.Flags().String("name", "", "Display name for the identity (required)")
	_ = enrollCmd.MarkFlagRequired("no")
	_ = enrollCmd.MarkFlagRequired("id")
	_ = enrollCmd.MarkFlagRequired("name")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	img, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading image file: %w", err)
	}

	manager := enroll.NewManager(st)
	filename, err := manager.Enroll(cmd.Context(), enroll.Request{
		SequenceNo: mustGetString(cmd, "no"),
		Identity:   mustGetString(cmd, "id"),
		Name:       mustGetString(cmd, "name"),
		Image:      img,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Enrolled %s as %s\n", filename, mustGetString(cmd, "name"))
	return nil
}
