// Command complexmul multiplies two complex sequences on the best available
// device, checks the result against the scalar reference and reports timing.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	complexmul "github.com/LynnColeArt/guda-complexmul"
	"github.com/LynnColeArt/guda-complexmul/internal/config"
	"github.com/LynnColeArt/guda-complexmul/internal/harness"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// run flags
	elements   int
	vendor     string
	repeat     int
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "complexmul",
	Short: "Parallel complex multiplication with a scalar cross-check",
	Long: `complexmul multiplies two large sequences of complex numbers on the
highest ranked device, repeats the work with a sequential reference kernel
and verifies that both results are identical.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Failure")
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the parallel multiplication and verify it",
	RunE:  runCheck,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the module version",
	Run: func(cmd *cobra.Command, args []string) {
		v, sum := complexmul.Version()
		if v == "" {
			v = "(devel)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "complexmul %s %s\n", v, sum)
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List host devices and their ranking scores",
	RunE:  listDevices,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "complexmul.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	runCmd.Flags().IntVarP(&elements, "elements", "n", 0, "Number of complex values (overrides config)")
	runCmd.Flags().StringVar(&vendor, "vendor", "", "Preferred device vendor substring (overrides config)")
	runCmd.Flags().IntVar(&repeat, "repeat", 0, "Scalar repetitions to average (overrides config)")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")

	devicesCmd.Flags().StringVar(&vendor, "vendor", "", "Preferred device vendor substring (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger.
func setup() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = zapcore.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err = cfg.NewLogger()
	return err
}

func applyOverrides(cmd *cobra.Command) {
	if cmd.Flags().Changed("elements") {
		cfg.Elements = elements
	}
	if cmd.Flags().Changed("vendor") {
		cfg.PreferredVendor = vendor
	}
	if cmd.Flags().Changed("repeat") {
		cfg.ScalarRepetitions = repeat
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	applyOverrides(cmd)

	platform := complexmul.NewHostPlatform(cfg.HostOptions()...)
	report, err := harness.Run(cfg, platform, logger)
	if err != nil {
		logger.Error("run aborted", zap.Error(err))
		fmt.Fprintln(cmd.OutOrStdout(), "Failure")
		return err
	}

	if jsonOutput {
		return report.WriteJSON(cmd.OutOrStdout())
	}
	report.Print(cmd.OutOrStdout())
	return nil
}

func listDevices(cmd *cobra.Command, args []string) error {
	applyOverrides(cmd)

	platform := complexmul.NewHostPlatform(cfg.HostOptions()...)
	rank := complexmul.VendorRanker(cfg.PreferredVendor)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLASS\tSCORE\tEXTENSIONS")
	for _, d := range platform.Devices() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%v\n", d.ID, d.Name, d.Class, rank(d), d.Extensions)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, err := complexmul.SelectDevice(platform.Devices(), rank)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "selected: %s\n", best.Name)
	return nil
}
