package cmd

import(
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abworrall/radiocal/pkg/radiocal"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "radiocal",
		Short: "validate a radiometric camera model against real images",
		Long:  "Runs a learned camera model both ways (raw->rendered, rendered->raw) over patches of a\n" +
			"raw/rendered image pair, and reports how far the results are from the real thing.",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewRunCmd(ctx),
		NewPipelineCmd(ctx, "forward"),
		NewPipelineCmd(ctx, "backward"),
		NewCheckModelCmd(ctx),
		NewMkIdentityCmd(ctx),
	)

	pf := cmd.PersistentFlags()
	pf.String("config", "", "yaml config file; flags override its values")
	pf.IntP("verbosity", "v", 0, "how verbose to get")
	pf.String("model", "", "directory holding the camera model tables")
	pf.Int("wb", 1, "white balance setting to use from the model (1-based)")
	pf.String("layout", "rggb", "bayer layout of the raw image")
	pf.String("raw", "", "raw sensor mosaic (single channel TIFF)")
	pf.String("rendered", "", "the camera's rendering of the same shot (JPEG, PNG, TIFF)")
	pf.String("out", "", "output directory")
	pf.Int("workers", 0, "number of goroutines (0 means one per CPU)")
	pf.Int("patchsize", 0, "patch width & height, in pixels")
	pf.Bool("allow-nonmonotonic", false, "accept tone curves that decrease")

	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
	return cmd
}

// loadConfig reads the config file (if any), and then overrides it
// with any flags that were set on the command line.
func loadConfig(cmd *cobra.Command) (radiocal.Config, error) {
	cfg := radiocal.NewConfig()
	flags := cmd.Flags()

	if filename, _ := flags.GetString("config"); filename != "" {
		c, err := radiocal.LoadConfig(filename)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}

	if flags.Changed("verbosity") {
		cfg.Verbosity, _ = flags.GetInt("verbosity")
	}
	if flags.Changed("model") {
		cfg.ModelDir, _ = flags.GetString("model")
	}
	if flags.Changed("wb") {
		cfg.WhiteBalanceIndex, _ = flags.GetInt("wb")
	}
	if flags.Changed("layout") {
		cfg.Layout, _ = flags.GetString("layout")
	}
	if flags.Changed("raw") {
		cfg.RawImage, _ = flags.GetString("raw")
	}
	if flags.Changed("rendered") {
		cfg.RenderedImage, _ = flags.GetString("rendered")
	}
	if flags.Changed("out") {
		cfg.OutputDir, _ = flags.GetString("out")
	}
	if n, _ := flags.GetInt("workers"); n > 0 {
		cfg.Workers = n
	}
	if n, _ := flags.GetInt("patchsize"); n > 0 {
		cfg.PatchSize = n
	}
	if flags.Changed("allow-nonmonotonic") {
		cfg.AllowNonMonotonicCurve, _ = flags.GetBool("allow-nonmonotonic")
	}

	if err := cfg.FinalizeConfig(); err != nil {
		return cfg, err
	}
	if cfg.ModelDir == "" {
		return cfg, fmt.Errorf("no model directory; use --model, or modeldir in the config")
	}
	return cfg, nil
}
