/*
 * solvate.go, part of quantic.
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
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/solv"
)

var solvateCmd = &cobra.Command{
	Use:   "solvate <structure> <output>",
	Short: "Fill a box around the structure with TIP3P waters",
	Long: `Solvate places TIP3P waters on a grid covering the bounding box of the
structure, padded by --box on each side. Waters too close to an atom already
present are skipped. With --shells, the distribution of water oxygens around
the solute is printed.`,
	Args: cobra.ExactArgs(2),
	RunE: runSolvate,
}

var ionsCmd = &cobra.Command{
	Use:   "ions <structure> <output>",
	Short: "Add ions at random positions in the bounding box of the structure",
	Args:  cobra.ExactArgs(2),
	RunE:  runIons,
}

func init() {
	solvateCmd.Flags().Float64("box", 5, "padding of the bounding box, in A")
	solvateCmd.Flags().Float64("grid", 3, "grid spacing, in A")
	solvateCmd.Flags().Float64("jitter", 0.1, "maximum random displacement of each water atom, in A")
	solvateCmd.Flags().Float64("min-dist", 2, "minimum distance between a water and any other atom, in A")
	solvateCmd.Flags().Int64("seed", 0, "random seed (default: time based)")
	solvateCmd.Flags().Bool("center", false, "move the centroid of the structure to the origin before solvating")
	solvateCmd.Flags().Bool("shells", false, "print the number of water oxygens per 0.5 A shell around the solute")

	ionsCmd.Flags().String("ion", "Na", "element of the ions")
	ionsCmd.Flags().Int("count", 1, "number of ions")
	ionsCmd.Flags().Int64("seed", 0, "random seed (default: time based)")

	rootCmd.AddCommand(solvateCmd)
	rootCmd.AddCommand(ionsCmd)
}

func newRand(cmd *cobra.Command) *rand.Rand {
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func runSolvate(cmd *cobra.Command, args []string) error {
	box, _ := cmd.Flags().GetFloat64("box")
	grid, _ := cmd.Flags().GetFloat64("grid")
	jitter, _ := cmd.Flags().GetFloat64("jitter")
	minDist, _ := cmd.Flags().GetFloat64("min-dist")
	shells, _ := cmd.Flags().GetBool("shells")
	center, _ := cmd.Flags().GetBool("center")

	S, err := chem.ReadStructure(args[0])
	if err != nil {
		return err
	}
	if center {
		c := S.Center()
		log.Printf("Moved the structure by %.3f %.3f %.3f", -c.X, -c.Y, -c.Z)
	}
	solute := make([]int, S.Len())
	for i := range solute {
		solute[i] = i
	}
	opts := solv.DefaultOptions()
	opts.Cpus(cfg.Cpus)
	opts.Grid(grid)
	opts.Jitter(jitter)
	opts.MinDist(minDist)
	n, err := solv.SolvateBox(S, box, newRand(cmd), opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d waters, %d atoms in total\n", n, S.Len())
	if shells {
		counts, err := solv.Shells(S, solute, "O", opts)
		if err != nil {
			return err
		}
		for i, c := range counts {
			fmt.Fprintf(cmd.OutOrStdout(), "%5.2f %d\n", float64(i)*opts.Step(), c)
		}
	}
	return chem.WriteStructure(args[1], S)
}

func runIons(cmd *cobra.Command, args []string) error {
	ion, _ := cmd.Flags().GetString("ion")
	count, _ := cmd.Flags().GetInt("count")
	if chem.ElementCode(ion) == 0 {
		return chem.NewError(chem.MalformedInput, fmt.Sprintf("unknown element %q", ion), "runIons")
	}
	S, err := chem.ReadStructure(args[0])
	if err != nil {
		return err
	}
	if err := solv.AddIons(S, chem.NormalizeSymbol(ion), count, newRand(cmd)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d %s ions\n", count, chem.NormalizeSymbol(ion))
	return chem.WriteStructure(args[1], S)
}
