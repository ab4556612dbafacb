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

/*Package petro is the main package of the goPetro library. It provides the
experiment table used throughout, facilities for reading and writing the
spreadsheet files of the study, oxide bookkeeping and the unit conversions
the external engines expect.



	**goPetro capabilities**


    Reads/writes xlsx and csv spreadsheets of experimental runs (one row per
	run: bulk liquid composition in oxide wt%, temperature, pressure, oxygen
	fugacity and the Experiment/Citation identifiers).

    Keeps the table as named columns over a gonum Dense block, so results can
	be fed straight to gonum's stat functions.

    Distinguishes "not measured" (NaN) from zero, and only zero-fills oxide
	columns; a missing temperature, pressure or fO2 is an error, never a zero.

    Splits total iron into FeO and Fe2O3 from a given Fe3+/FeT fraction
	(stoichiometry only; the fraction itself comes from an external
	calibration, see gopetro/oxy).

    Prepares inputs for, runs, and recovers results from the external
	phase-equilibrium engines (gopetro/meq): the melt-thermodynamics console
	program for the MELTS-family models and the Gibbs-minimization engine
	reached through its Julia bridge. The engines must be obtained
	independently from their respective distributors.



The canonical column names follow the geothermobarometry toolkit the study
used: liquid oxides carry the _Liq suffix (SiO2_Liq, ...), conditions are
T_C, P_GPa and logfO2, and the ferric iron fraction is Fe3Fet_Liq. The
spreadsheet readers also accept the bare oxide names and map them to the
canonical ones.*/
package petro
