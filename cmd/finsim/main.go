package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finsim/retirement-simulator/internal/calculation"
	"github.com/finsim/retirement-simulator/internal/config"
	"github.com/finsim/retirement-simulator/internal/logging"
	"github.com/finsim/retirement-simulator/internal/output"
)

var (
	debugFlag  bool
	formatFlag string
	outputFlag string
	seedFlag   int64

	trialsFlag   int
	parallelFlag int
)

var rootCmd = &cobra.Command{
	Use:   "finsim",
	Short: "Household retirement trajectory simulator",
	Long: `finsim projects a household's financial trajectory from the current age
through retirement and estate settlement: contributions, market growth,
taxes, Social Security, required minimum distributions, and portfolio
withdrawals, year by year. It runs either a single deterministic trial or
a Monte Carlo batch over randomized market returns.`,
	SilenceUsage: true,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <config.yaml>",
	Short: "Run a single deterministic trial",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo <config.yaml>",
	Short: "Run a Monte Carlo batch of trials",
	Args:  cobra.ExactArgs(1),
	RunE:  runMonteCarlo,
}

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExampleConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "console", "output format (console, json, csv)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "override the configured random seed")

	montecarloCmd.Flags().IntVar(&trialsFlag, "trials", 0, "override the configured trial count")
	montecarloCmd.Flags().IntVar(&parallelFlag, "parallel", 0, "override the configured parallelism cap")

	rootCmd.AddCommand(simulateCmd, montecarloCmd, exampleConfigCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(debugFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Sync()

	file, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}
	in := file.Simulation

	seed := in.Seed
	if seedFlag != 0 {
		seed = seedFlag
	}

	engine := calculation.NewSimulationEngine()
	engine.SetLogger(logger)

	logger.Infof("running single trial with seed %d", seed)
	result := engine.RunSingleTrial(in, seed)
	if result.Failed {
		return fmt.Errorf("trial failed: %s", result.FailureReason)
	}

	return render(&output.Report{Inputs: in.Normalize(), Single: result})
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(debugFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Sync()

	file, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}
	in := file.Simulation

	mcCfg := file.MonteCarlo
	if seedFlag != 0 {
		mcCfg.BaseSeed = seedFlag
	}
	if trialsFlag > 0 {
		mcCfg.NumTrials = trialsFlag
	}
	if parallelFlag > 0 {
		mcCfg.MaxParallel = parallelFlag
	}

	engine := calculation.NewSimulationEngine()
	engine.SetLogger(logger)
	driver := calculation.NewMonteCarloDriver(engine)
	driver.SetLogger(logger)

	batch, err := driver.Run(cmd.Context(), in, mcCfg)
	if err != nil {
		return err
	}

	return render(&output.Report{Inputs: in.Normalize(), MonteCarlo: batch})
}

func runExampleConfig(cmd *cobra.Command, args []string) error {
	path := "finsim.example.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.NewInputParser().WriteExampleFile(path); err != nil {
		return err
	}
	fmt.Printf("Example configuration written to %s\n", path)
	return nil
}

// render formats the report and writes it to stdout or --output.
func render(report *output.Report) error {
	formatter := output.GetFormatterByName(formatFlag)
	if formatter == nil {
		return fmt.Errorf("unknown format %q (available: %v)", formatFlag, output.AvailableFormatterNames())
	}

	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputFlag, err)
		}
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
