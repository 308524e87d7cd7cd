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

//Package traj writes and reads the trajectories produced by multi-cycle
//relax, minimize and simulate runs.
//
//The format is a plain text format compressed with z-standard (zstd).
//A file starts with a header of key=value lines, ended by a line with
//the characters "**", one space, and the number of atoms per frame.
//The header always holds the precision under the key "prec".
//
//After the header come the frames. Each frame has one line per atom with
//the x, y and z coordinates, in Angstrom, multiplied by 10 to the power of
//the precision and rounded to an integer. A frame ends with a line
//starting with "*".
//
//For a structure of two atoms, with precision 2, a one-frame file
//(before compression) looks like:
//
//	prec=2
//	kind=relax
//	** 2
//	0 0 0
//	152 -3 10
//	*
package traj
