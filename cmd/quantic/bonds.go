/*
 * bonds.go, part of quantic.
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
	"io"
	"strings"

	"github.com/spf13/cobra"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/bonds"
	"github.com/amphiquantic/quantic/chemgraph"
	"github.com/amphiquantic/quantic/chemjson"
	"github.com/amphiquantic/quantic/chemplot"
)

var bondsCmd = &cobra.Command{
	Use:   "bonds <structure>",
	Short: "Assign bonds from the reference bond distances",
	Long: `Bonds compares every pair of atoms in the structure with the reference
distance table. Pairs within the reference range are bonded, pairs close to
the reference average are reported as near bonds, and element pairs without
reference data are listed as missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runBonds,
}

func init() {
	bondsCmd.Flags().Bool("json", false, "print the structure, bonds and atom properties as JSON")
	bondsCmd.Flags().Bool("prune", false, "drop the longest bonds of atoms over their valence")
	bondsCmd.Flags().String("out", "", "write the structure with the assigned bonds (PDB or XYZ)")
	bondsCmd.Flags().String("histogram", "", "plot the bond length histogram to this file")
	bondsCmd.Flags().String("plot", "", "plot the XY projection of the molecule to this file")
	bondsCmd.Flags().Int("bins", 20, "number of bins for --histogram")

	rootCmd.AddCommand(bondsCmd)
}

func runBonds(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	prune, _ := cmd.Flags().GetBool("prune")
	out, _ := cmd.Flags().GetString("out")
	histogram, _ := cmd.Flags().GetString("histogram")
	plotFile, _ := cmd.Flags().GetString("plot")
	bins, _ := cmd.Flags().GetInt("bins")

	S, err := chem.ReadStructure(args[0])
	if err != nil {
		return err
	}
	table, err := loadTable()
	if err != nil {
		return err
	}
	opts := bonds.DefaultOptions()
	opts.Cpus(cfg.Cpus)
	engine := bonds.NewEngine(table, opts)
	res, err := engine.Determine(S.Coords, S.Types)
	if err != nil {
		return err
	}
	S.Bonds = res.Confirmed
	props, err := loadAtoms()
	if err != nil {
		return err
	}
	if prune {
		S.Bonds, err = bonds.PruneByValence(S.Coords, S.Types, S.Bonds, props)
		if err != nil {
			return err
		}
	}
	if out != "" {
		if err := chem.WriteStructure(out, S); err != nil {
			return err
		}
	}
	if histogram != "" && len(S.Bonds) > 0 {
		lengths, err := bonds.Lengths(S.Coords, S.Bonds)
		if err != nil {
			return err
		}
		if err := chemplot.BondLengthHistogram(lengths, bins, args[0], histogram); err != nil {
			return err
		}
	}
	if plotFile != "" {
		if err := chemplot.Molecule(S, props, args[0], plotFile); err != nil {
			return err
		}
	}
	if jsonOut {
		return chemjson.Encode(cmd.OutOrStdout(), S, props, res.Near, res.MissingPairs())
	}
	return bondsReport(cmd.OutOrStdout(), S, res)
}

func bondsReport(w io.Writer, S *chem.Structure, res *bonds.Result) error {
	fmt.Fprintf(w, "atoms: %d\n", S.Len())
	mass, unknown := S.Mass()
	fmt.Fprintf(w, "mass: %.2f\n", mass)
	if len(unknown) > 0 {
		fmt.Fprintf(w, "  no mass for: %s\n", strings.Join(unknown, " "))
	}
	c := S.Centroid()
	fmt.Fprintf(w, "centroid: %.3f %.3f %.3f\n", c.X, c.Y, c.Z)
	fmt.Fprintf(w, "bonds: %d\n", len(S.Bonds))
	for _, p := range S.Bonds {
		fmt.Fprintf(w, "  %d-%d %s-%s %.3f\n", p.I, p.J, S.Types[p.I], S.Types[p.J], S.Distance(p.I, p.J))
	}
	fmt.Fprintf(w, "near: %d\n", len(res.Near))
	for _, p := range res.Near {
		fmt.Fprintf(w, "  %d-%d %s-%s %.3f\n", p.I, p.J, S.Types[p.I], S.Types[p.J], S.Distance(p.I, p.J))
	}
	missing := res.MissingPairs()
	fmt.Fprintf(w, "missing: %d\n", len(missing))
	for _, k := range missing {
		fmt.Fprintf(w, "  %s\n", k)
	}
	if len(S.Bonds) > 0 {
		st, err := bonds.Stats(S.Coords, S.Bonds)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "lengths: %s\n", st)
	}
	g, err := chemgraph.New(S.Coords, S.Bonds)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "fragments: %d\n", len(g.Fragments()))
	return err
}
