/*
 * conversion.go, part of goPetro.
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

package petro

//This provides useful conversion factors and other constants.
//The experiment table keeps pressure in GPa and temperature in Celsius;
//the external engines want bar (melt-thermodynamics program) or kbar
//(Gibbs minimizer) and, for some inputs, Kelvin.

//Conversions
const (
	GPa2Bar  = 10000.0
	Bar2GPa  = 1 / 10000.0
	GPa2Kbar = 10.0
	Kbar2GPa = 1 / 10.0
	Kbar2Bar = 1000.0
	KOffset  = 273.15 //additive, not a factor
)

//CtoK converts a temperature in Celsius to Kelvin.
func CtoK(t float64) float64 {
	return t + KOffset
}

//KtoC converts a temperature in Kelvin to Celsius.
func KtoC(t float64) float64 {
	return t - KOffset
}
