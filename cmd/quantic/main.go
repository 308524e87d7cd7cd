/*
 * main.go, part of quantic.
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

//Package main is the quantic command line tool. It assigns bonds to
//molecular structures from reference distance tables, runs relax, minimize
//and simulate passes on the GPU, and adds solvent or ions to a structure.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/amphiquantic/quantic/compute"
	"github.com/amphiquantic/quantic/internal/config"
	"github.com/amphiquantic/quantic/refdata"
)

//version is set at build time via ldflags.
var version = "dev"

//cfg holds the configuration loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "quantic",
	Short: "Bond assignment and GPU structure relaxation for molecules",
	Long: `quantic reads molecular structures (PDB or XYZ, optionally zstd-compressed),
assigns bonds from a table of reference bond distances, and runs relax,
minimize or simulate passes over the structure on a WebGPU device.

Reference data is located through quantic.yaml (in the working directory or
~/.config/quantic) and QUANTIC_* environment variables; see "quantic config".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLog(verbose, cmd.ErrOrStderr())
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(config.New(file))
		if err != nil {
			return err
		}
		if c.File != "" {
			log.Println("Using config file:", c.File)
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./quantic.yaml or ~/.config/quantic/quantic.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")
}

//setupLog sends the library logs to w if verbose is set, and discards them otherwise.
func setupLog(verbose bool, w io.Writer) {
	log.SetFlags(0)
	log.SetPrefix("quantic: ")
	if verbose {
		log.SetOutput(w)
		return
	}
	log.SetOutput(io.Discard)
}

func loadTable() (*refdata.Table, error) {
	return refdata.Load(cfg.BondDistances)
}

func loadAtoms() (refdata.AtomProperties, error) {
	return refdata.LoadAtomProperties(cfg.AtomProperties)
}

func loadKernels() (compute.KernelSet, error) {
	if cfg.Shaders == "" {
		return compute.EmbeddedKernels()
	}
	return compute.DirKernels(cfg.Shaders)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of quantic",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quantic %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
