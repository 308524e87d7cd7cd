/*
 * doc.go, part of quantic.
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

/*Package chem is the main package of the quantic library. It provides the
Structure type, the error type used by all the quantic packages, and
facilities to read and write the files that hold structures.


	**quantic Capabilities**


    Reads/writes PDB (with CONECT records) and XYZ files, optionally
	compressed with zstd.

    Assigns bonds from tables of reference bond distances, in parallel
	(package bonds, tables in package refdata).

    Prunes bonds of atoms beyond their valence, and gives statistics of
	bond lengths.

    Runs relax, minimize and simulate passes over a structure on a WebGPU
	device, with the kernels written in WGSL (package compute).

    Builds the bond graph of a structure, with fragments, neighbours and
	shortest paths (package chemgraph).

    Adds TIP3P waters or ions around a structure, and counts solvent
	atoms in shells around a solute (package solv).

    Writes and reads compressed trajectories (package traj).

    Plots bond length histograms and XY projections of molecules (package
	chemplot), and exports structures as JSON for viewers (package chemjson).

    Rescales coordinates into a drawing area.


Errors returned by all packages are *Error values, which carry an ErrorKind.
Use KindOf, or errors.Is with the Err* sentinels, to tell them apart.

*/
package chem
