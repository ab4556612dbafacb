/*
 * doc.go, part of goPetro.
 *
 * Copyright 2024 the goPetro authors
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

//Package meq runs the external phase-equilibrium engines over a table of
//experimental runs, in such a way that the per-model loop is as separated
//as possible from the choice of engine performing the equilibration. The
//engines themselves (the alphaMELTS console program and the MAGEMin
//minimizer behind its Julia bridge) are not part of this library and must
//be obtained from their distributors.

package meq
