/*
 * run.go, part of quantic.
 *
 *
 * Copyright 2024 The quantic Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/bonds"
	"github.com/amphiquantic/quantic/compute"
	"github.com/amphiquantic/quantic/traj"
	v3 "github.com/amphiquantic/quantic/v3"
)

var processHelp = map[compute.ProcessKind]string{
	compute.Relax:    "Relax pulls bonded atoms toward their ideal separation with a fixed step.",
	compute.Minimize: "Minimize moves bonded atoms toward their ideal separation, with bounded moves, until the structure converges.",
	compute.Simulate: "Simulate integrates damped, mass-weighted motion of bonded atoms.",
}

//newProcessCmd returns the subcommand for one process kind. All of them
//share their flags and their implementation.
func newProcessCmd(kind compute.ProcessKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.String() + " <structure>",
		Short: fmt.Sprintf("Run %s passes on the GPU", kind),
		Long: processHelp[kind] + `

Bonds are taken from the CONECT records of the input, or assigned from the
reference distances if the input has none. Each cycle is one GPU pass of up
to --steps steps; with --traj, the coordinates after every cycle are written
to a compressed trajectory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, kind)
		},
	}
	cmd.Flags().Float32("step", 0.01, "step size")
	cmd.Flags().Uint32("steps", 100, "maximum number of steps per cycle")
	cmd.Flags().Int("cycles", 1, "number of GPU passes")
	cmd.Flags().String("out", "", "write the final structure (PDB or XYZ)")
	cmd.Flags().String("traj", "", "write the coordinates after each cycle to this trajectory")
	return cmd
}

func init() {
	for _, k := range compute.Kinds() {
		rootCmd.AddCommand(newProcessCmd(k))
	}
}

func runProcess(cmd *cobra.Command, args []string, kind compute.ProcessKind) error {
	step, _ := cmd.Flags().GetFloat32("step")
	steps, _ := cmd.Flags().GetUint32("steps")
	cycles, _ := cmd.Flags().GetInt("cycles")
	out, _ := cmd.Flags().GetString("out")
	trajFile, _ := cmd.Flags().GetString("traj")
	if cycles < 1 {
		return chem.NewError(chem.MalformedInput, fmt.Sprintf("%d cycles requested", cycles), "runProcess")
	}
	job := compute.Job{StepSize: step, MaxSteps: steps, Kind: kind}
	if err := job.Validate(); err != nil {
		return err
	}

	S, err := chem.ReadStructure(args[0])
	if err != nil {
		return err
	}
	if len(S.Bonds) == 0 {
		table, err := loadTable()
		if err != nil {
			return err
		}
		opts := bonds.DefaultOptions()
		opts.Cpus(cfg.Cpus)
		res, err := bonds.NewEngine(table, opts).Determine(S.Coords, S.Types)
		if err != nil {
			return err
		}
		S.Bonds = res.Confirmed
		log.Printf("Assigned %d bonds to %s", len(S.Bonds), args[0])
	}
	kernels, err := loadKernels()
	if err != nil {
		return err
	}
	dispatcher, err := compute.NewDispatcher(compute.WebGPU{LowPower: cfg.LowPower()}, kernels)
	if err != nil {
		return err
	}
	var tw *traj.Writer
	if trajFile != "" {
		tw, err = traj.NewWriter(trajFile, S.Len(), map[string]string{"kind": kind.String(), "source": args[0]})
		if err != nil {
			return err
		}
		defer tw.Close()
		if err := tw.WriteFrame(S.Coords); err != nil {
			return err
		}
	}
	start := v3.FromVecs(S.Coords)
	session, err := dispatcher.Session()
	if err != nil {
		return err
	}
	defer session.Close()
	for i := 0; i < cycles; i++ {
		coords, err := session.Run(S.Coords, S.Types, S.Bonds, job)
		if err != nil {
			return chem.ErrDecorate(err, fmt.Sprintf("cycle %d", i+1))
		}
		S.Coords = coords
		if tw != nil {
			if err := tw.WriteFrame(S.Coords); err != nil {
				return err
			}
		}
		log.Printf("Cycle %d of %d done", i+1, cycles)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return err
		}
	}
	if start != nil {
		rmsd, err := v3.RMSD(start, v3.FromVecs(S.Coords))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d atoms, %d bonds, %d cycles, RMSD from input %.4f A\n", kind, S.Len(), len(S.Bonds), cycles, rmsd)
	}
	if out != "" {
		return chem.WriteStructure(out, S)
	}
	return nil
}
