package cmd

import(
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/abworrall/radiocal/pkg/radiocal"
)

// NewRunCmd runs both pipelines over a batch of patches.
func NewRunCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "validate the model over many patches",
		Long:  "Runs forward & backward over each patch (from the config, or tiling the image), exporting\n" +
			"every stage, and writes forward.txt, backward.txt and summary.yaml into a per-run directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if n, _ := cmd.Flags().GetInt("max"); n > 0 {
				cfg.MaxPatches = n
			}
			if b, _ := cmd.Flags().GetBool("hdr"); b {
				cfg.ExportHDR = true
			}
			if op, _ := cmd.Flags().GetString("preview"); op != "" {
				cfg.PreviewOperator = op
				if err := cfg.FinalizeConfig(); err != nil {
					return err
				}
			}

			v := radiocal.NewValidator(cfg)
			if err := os.MkdirAll(v.OutputDir, 0755); err != nil {
				return fmt.Errorf("mkdir '%s': %v", v.OutputDir, err)
			}

			// Keep a copy of the log alongside the results
			logFile := &lumberjack.Logger{
				Filename:   filepath.Join(v.OutputDir, "radiocal.log"),
				MaxSize:    20, // megabytes
				MaxBackups: 3,
			}
			defer logFile.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, logFile))
			log.SetPrefix(fmt.Sprintf("[%.8s] ", v.RunID))

			if cfg.Verbosity > 0 {
				log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
			}

			if err := v.LoadImages(); err != nil {
				return err
			}

			s, err := v.Run(ctx)
			fmt.Print(s.AsYaml())
			return err
		},
	}

	pf := cmd.PersistentFlags()
	pf.Int("max", 0, "stop after this many patches")
	pf.Bool("hdr", false, "also export every stage as a radiance .hdr file")
	pf.String("preview", "", "also export a tone mapped preview of every stage: "+radiocal.ListPreviewOperators())

	return cmd
}
