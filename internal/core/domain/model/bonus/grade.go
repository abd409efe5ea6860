package bonus

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Grade is the loyalty tier derived from accumulated points.
//
// Floors:
//
//	Newcomer   0
//	Bronze     100
//	Silver     300
//	Gold       600
//	Platinum   1000
//
// Grades only describe points; VIP status is decided separately by
// VipProfilePolicy.
type Grade int

const (
	// UnknownGrade is the zero value and never stored.
	UnknownGrade Grade = iota
	// Newcomer is the grade of a fresh profile.
	Newcomer
	// Bronze starts at 100 points.
	Bronze
	// Silver starts at 300 points.
	Silver
	// Gold starts at 600 points.
	Gold
	// Platinum starts at 1000 points.
	Platinum
)

// gradeFloors is ordered from the highest grade down.
var gradeFloors = []struct {
	grade  Grade
	points int64
}{
	{Platinum, 1000},
	{Gold, 600},
	{Silver, 300},
	{Bronze, 100},
	{Newcomer, 0},
}

func getGradeStrings() map[Grade]string {
	return map[Grade]string{
		UnknownGrade: "Unknown",
		Newcomer:     "Newcomer",
		Bronze:       "Bronze",
		Silver:       "Silver",
		Gold:         "Gold",
		Platinum:     "Platinum",
	}
}

// String returns the wire name used in GradeAttained.
func (g Grade) String() string {
	if s, ok := getGradeStrings()[g]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects UnknownGrade and values outside the declared range.
func (g Grade) Validate() error {
	if g < Newcomer || g > Platinum {
		return errs.NewValueIsInvalidErrorWithCause("grade is invalid", fmt.Errorf("%d is not a valid grade", g))
	}
	return nil
}

// ParseGrade is the inverse of String. "Unknown" is rejected.
func ParseGrade(s string) (Grade, error) {
	for g, str := range getGradeStrings() {
		if g != UnknownGrade && str == s {
			return g, nil
		}
	}
	return UnknownGrade, errs.NewValueIsInvalidErrorWithCause("grade is invalid", fmt.Errorf("%q is not a valid grade", s))
}

// GradeByPoints maps accumulated points to a grade. Negative points mean the
// caller broke the points contract and are reported as an invariant violation.
func GradeByPoints(points int64) (Grade, error) {
	if points < 0 {
		return UnknownGrade, errs.NewInvariantViolationError(fmt.Sprintf("points must not be negative, got %d", points))
	}
	for _, f := range gradeFloors {
		if points >= f.points {
			return f.grade, nil
		}
	}
	return Newcomer, nil
}
