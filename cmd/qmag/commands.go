package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/theapemachine/qmag"
)

func newEvaluateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate FILE...",
		Short: "Print (Bx, Bz, <M>) for every eigenpair of each eigenset file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			q := qmag.NewQ(cmd.Context(), config)
			defer q.Close()

			out := cmd.OutOrStdout()
			var errs []error

			for _, fr := range q.EvaluateFiles(cmd.Context(), qmag.NewEvaluator(config), args) {
				if fr.Err != nil {
					errs = append(errs, fr.Err)
					continue
				}

				if len(args) > 1 {
					fmt.Fprintf(out, "# %s\n", fr.Path)
				}
				for _, obs := range fr.Result.Observations {
					fmt.Fprintln(out, obs)
				}
				if err := fr.Result.Err(); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", fr.Path, err))
				}
			}

			return errors.Join(errs...)
		},
	}
}

func newBasisCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "basis QUBITS",
		Short: "Print the computational basis with the magnetization of every state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid qubit count %q: %w", args[0], err)
			}

			config, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			table, err := qmag.NewEvaluator(config).Table(n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for j, m := range table {
				fmt.Fprintf(out, "%d\t%s\t%v\n", j, qmag.BasisState(j, n), m)
			}
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	c := qmag.NewGeneratorConfig()
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Diagonalize a sweep of transverse-field Ising chains into an eigenset file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			es, err := qmag.Generate(c)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return qmag.WriteEigenset(cmd.OutOrStdout(), es)
			}
			return qmag.SaveEigenset(output, es, force)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "eigenset file to write (stdout when empty)")
	flags.BoolVar(&force, "force", false, "overwrite an existing output file")
	flags.IntVar(&c.Qubits, "qubits", c.Qubits, "chain length")
	flags.Float64Var(&c.Coupling, "coupling", c.Coupling, "nearest-neighbour zz coupling J")
	flags.Float64Var(&c.BxMin, "bx-min", c.BxMin, "lowest transverse field")
	flags.Float64Var(&c.BxMax, "bx-max", c.BxMax, "highest transverse field")
	flags.IntVar(&c.BxSteps, "bx-steps", c.BxSteps, "transverse field grid points")
	flags.Float64Var(&c.BzMin, "bz-min", c.BzMin, "lowest longitudinal field")
	flags.Float64Var(&c.BzMax, "bz-max", c.BzMax, "highest longitudinal field")
	flags.IntVar(&c.BzSteps, "bz-steps", c.BzSteps, "longitudinal field grid points")
	flags.IntVar(&c.Replicas, "replicas", c.Replicas, "disorder realizations per grid point")
	flags.Float64Var(&c.Disorder, "disorder", c.Disorder, "on-site disorder strength W")
	flags.IntVar(&c.States, "states", c.States, "lowest eigenpairs kept per Hamiltonian")
	flags.Uint64Var(&c.Seed, "seed", c.Seed, "disorder RNG seed")

	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Dump the decoded contents of an eigenset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			es, err := qmag.LoadEigenset(args[0])
			if err != nil {
				return err
			}

			spew.Fdump(cmd.OutOrStdout(), es)
			return nil
		},
	}
}
