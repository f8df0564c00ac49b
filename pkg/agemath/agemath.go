// Package agemath provides age arithmetic for Social Security and RMD
// rules. The simulation is age-indexed rather than date-indexed, so birth
// years are derived from the projection base year.
package agemath

// ProjectionBaseYear anchors age-to-birth-year conversion. All projections
// start from this calendar year.
const ProjectionBaseYear = 2025

// BirthYear derives an approximate birth year from a current age.
func BirthYear(currentAge int) int {
	return ProjectionBaseYear - currentAge
}

// FullRetirementAge returns the Social Security Full Retirement Age for a
// birth year, rounded down to whole years.
func FullRetirementAge(birthYear int) int {
	switch {
	case birthYear <= 1937:
		return 65
	case birthYear <= 1942:
		return 65 // 65 plus 2-10 months, rounded down
	case birthYear <= 1954:
		return 66
	case birthYear <= 1959:
		return 66 // 66 plus 2-10 months, rounded down
	default: // 1960 and later
		return 67
	}
}

// RMDStartAge returns the age at which Required Minimum Distributions
// begin for a birth year, per the SECURE 2.0 schedule.
func RMDStartAge(birthYear int) int {
	switch {
	case birthYear <= 1950:
		return 72
	case birthYear <= 1959:
		return 73
	default: // 1960 and later
		return 75
	}
}

// ClampAge bounds an age to [lo, hi].
func ClampAge(age, lo, hi int) int {
	if age < lo {
		return lo
	}
	if age > hi {
		return hi
	}
	return age
}
