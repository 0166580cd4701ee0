package cmd

import(
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abworrall/radiocal/pkg/camera"
)

// NewCheckModelCmd loads both directions of a model, which runs all
// the integrity checks, and dumps what it found.
func NewCheckModelCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkmodel",
		Short: "load a camera model and check it is consistent",
		Long:  "Loads the raw2jpg and jpg2raw tables for the white balance setting, checks the combined\n" +
			"transforms and tone curves, and prints a summary of each.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			for _, d := range []camera.Direction{camera.Forward, camera.Backward} {
				m, err := camera.Load(cfg.ModelDir, d, cfg.WhiteBalanceIndex, cfg.LoadOptions())
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", m)

				if d == camera.Backward {
					if _, err := m.Combined.Inverse(); err != nil {
						return fmt.Errorf("%s: %v", m.Files.Transform, err)
					}
				}
			}

			fmt.Printf("model in %s is OK for white balance #%d\n", cfg.ModelDir, cfg.WhiteBalanceIndex)
			return nil
		},
	}
	return cmd
}

// NewMkIdentityCmd writes out a model that does nothing, in both
// directions. It's a starting point for hand-built models, and a quick
// way to check the pipelines on a new image pair.
func NewMkIdentityCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkidentity DIR",
		Short: "write an identity camera model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			wb, _ := cmd.Flags().GetInt("wb")
			if wb < 1 {
				return fmt.Errorf("--wb %d, must be >= 1", wb)
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("mkdir '%s': %v", dir, err)
			}
			for _, d := range []camera.Direction{camera.Forward, camera.Backward} {
				m := camera.NewIdentityModel(d)
				m.WhiteBalanceIndex = wb
				if err := m.Save(dir); err != nil {
					return err
				}
			}

			fmt.Printf("identity model with %d white balance settings written to %s\n", wb, dir)
			return nil
		},
	}
	return cmd
}
