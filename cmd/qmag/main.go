package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qmag"
)

type options struct {
	configPath string
	workers    int
	maxQubits  int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "qmag",
		Short:         "Magnetization expectation values of spin-chain eigensets",
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML or JSON config file")
	rootCmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "evaluation workers (overrides config)")
	rootCmd.PersistentFlags().IntVar(&opts.maxQubits, "max-qubits", 0, "largest register to evaluate (overrides config)")

	rootCmd.AddCommand(
		newEvaluateCmd(opts),
		newBasisCmd(opts),
		newGenerateCmd(),
		newInspectCmd(),
	)

	return rootCmd
}

// loadConfig applies the config file, then flag overrides, on top of the defaults.
func (o *options) loadConfig() (*qmag.Config, error) {
	config := qmag.NewConfig()

	if o.configPath != "" {
		var err error
		if config, err = qmag.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.workers > 0 {
		config.Workers = o.workers
	}
	if o.maxQubits > 0 {
		config.MaxQubits = o.maxQubits
	}

	return config, config.Validate()
}
