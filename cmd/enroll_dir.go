package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/face-gate/internal/config"
	"github.com/kozaktomas/face-gate/internal/enroll"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var enrollDirCmd = &cobra.Command{
	Use:   "enroll-dir <folder-path>",
	Short: "Bulk-enroll reference faces from a folder",
	Long: `Enroll every image in a folder whose filename follows the
<sequenceNo>_<identity>.<ext> scheme. Display names come from an optional
YAML mapping of identity tags to names; identities without an entry use
the identity tag as the name.

Example:
  face-gate enroll-dir ./faces --names names.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrollDir,
}

func init() {
	rootCmd.AddCommand(enrollDirCmd)

	enrollDirCmd.Flags().String("names", "", "YAML file mapping identity tags to display names")
}

// isImageFile checks if a file has a supported image extension
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	supported := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".bmp":  true,
	}
	return supported[ext]
}

// loadNameMapping parses the optional identity -> display name YAML file.
func loadNameMapping(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading names file: %w", err)
	}
	names := map[string]string{}
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parsing names file: %w", err)
	}
	return names, nil
}

// splitEnrollName parses <sequenceNo>_<identity>.<ext> from a filename.
func splitEnrollName(name string) (seq, identity string, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	seq, identity, ok = strings.Cut(base, "_")
	if !ok || seq == "" || identity == "" {
		return "", "", false
	}
	return seq, identity, true
}

func runEnrollDir(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	names, err := loadNameMapping(mustGetString(cmd, "names"))
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("reading folder: %w", err)
	}

	type candidate struct {
		path     string
		seq      string
		identity string
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		seq, identity, ok := splitEnrollName(entry.Name())
		if !ok {
			fmt.Printf("Skipping %s: filename does not match <seq>_<identity>.<ext>\n", entry.Name())
			continue
		}
		candidates = append(candidates, candidate{
			path:     filepath.Join(args[0], entry.Name()),
			seq:      seq,
			identity: identity,
		})
	}

	if len(candidates) == 0 {
		fmt.Println("No enrollable images found")
		return nil
	}

	bar := progressbar.NewOptions(len(candidates),
		progressbar.OptionSetDescription("Enrolling faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	manager := enroll.NewManager(st)
	enrolled, failed := 0, 0
	for _, c := range candidates {
		img, err := os.ReadFile(c.path)
		if err != nil {
			fmt.Printf("\nFailed to read %s: %v\n", c.path, err)
			failed++
			_ = bar.Add(1)
			continue
		}

		name := names[c.identity]
		if name == "" {
			name = c.identity
		}

		if _, err := manager.Enroll(cmd.Context(), enroll.Request{
			SequenceNo: c.seq,
			Identity:   c.identity,
			Name:       name,
			Image:      img,
		}); err != nil {
			fmt.Printf("\nFailed to enroll %s: %v\n", c.path, err)
			failed++
		} else {
			enrolled++
		}
		_ = bar.Add(1)
	}

	fmt.Printf("\nEnrolled %d faces (%d failed)\n", enrolled, failed)
	return nil
}
