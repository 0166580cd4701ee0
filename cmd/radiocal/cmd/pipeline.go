package cmd

import(
	"context"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/abworrall/radiocal/pkg/radiocal"
)

// NewPipelineCmd runs a single direction over a single patch, and
// prints the three comparison rows; handy when poking at a model.
func NewPipelineCmd(ctx context.Context, direction string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   direction,
		Short: fmt.Sprintf("run the %s pipeline over one patch", direction),
		Long:  fmt.Sprintf("Runs the %s pipeline over the patch at --x,--y and prints result, reference and\n" +
			"error rows. With --export, writes every stage out as PNG.", direction),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			x, _ := cmd.Flags().GetInt("x")
			y, _ := cmd.Flags().GetInt("y")
			exportDir, _ := cmd.Flags().GetString("export")

			src := radiocal.Sources{}
			if src.Raw, err = radiocal.LoadImage(cfg.RawImage); err != nil {
				return err
			}
			if src.Rendered, err = radiocal.LoadImage(cfg.RenderedImage); err != nil {
				return err
			}

			r := cfg.PatchRect(image.Point{x, y})
			var res *radiocal.Result
			if direction == "forward" {
				res, err = radiocal.Forward(cfg, src, 0, r)
			} else {
				res, err = radiocal.Backward(cfg, src, 0, r)
			}
			if err != nil {
				return err
			}

			c, err := radiocal.Compare(res.Output, res.Reference)
			if err != nil {
				return err
			}
			if err := radiocal.WriteRows(cmd.OutOrStdout(), c); err != nil {
				return err
			}
			log.Printf("%s: %s\n", res, c)

			if cfg.Verbosity > 1 {
				for _, p := range cfg.DebugPixels {
					log.Printf("%s", res.PixelTrace(image.Point{p[0], p[1]}))
				}
			}

			if exportDir != "" {
				if err := os.MkdirAll(exportDir, 0755); err != nil {
					return fmt.Errorf("mkdir '%s': %v", exportDir, err)
				}
				if err := radiocal.ExportResult(exportDir, res, cfg.ExportOptions()); err != nil {
					return err
				}
				return c.Heatmap(res.String(), radiocal.ExportFilename(exportDir, res, "heatmap", "png"), cfg.ExportScale)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.Int("x", 0, "left edge of the patch")
	pf.Int("y", 0, "top edge of the patch")
	pf.String("export", "", "directory to export the stages into")

	return cmd
}
