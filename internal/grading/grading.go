package grading

import (
	"math"

	"github.com/campusops/registrar-back/internal/models"
)

// Letter is a two-character letter grade. DZ is the absence-failure
// sentinel: more than MaxAbsences forces it regardless of score.
type Letter string

const (
	AA Letter = "AA"
	BA Letter = "BA"
	BB Letter = "BB"
	CB Letter = "CB"
	CC Letter = "CC"
	DC Letter = "DC"
	DD Letter = "DD"
	FD Letter = "FD"
	FF Letter = "FF"
	DZ Letter = "DZ"
)

const (
	Eligible    = "Eligible"
	NotEligible = "Not Eligible"

	MaxAbsences = 3

	midtermWeight   = 0.4
	finalExamWeight = 0.6
)

// WeightedScore combines midterm and final exam scores. No rounding.
func WeightedScore(midterm, finalExam float64) float64 {
	return midterm*midtermWeight + finalExam*finalExamWeight
}

// LetterFor maps a weighted score to its letter band. Band edges are
// inclusive on the lower side: exactly 90.0 is AA, 89.999 is BA.
func LetterFor(score float64) Letter {
	switch {
	case score >= 90:
		return AA
	case score >= 85:
		return BA
	case score >= 80:
		return BB
	case score >= 75:
		return CB
	case score >= 70:
		return CC
	case score >= 65:
		return DC
	case score >= 60:
		return DD
	case score >= 55:
		return FD
	default:
		return FF
	}
}

// EligibilityFor reports whether a letter qualifies the student for a
// resit exam. Only the failing letters DD, FD and FF do; DZ does not.
func EligibilityFor(letter Letter) string {
	switch letter {
	case DD, FD, FF:
		return Eligible
	default:
		return NotEligible
	}
}

var letterPoints = map[Letter]float64{
	AA: 4.0, BA: 3.5, BB: 3.0,
	CB: 2.5, CC: 2.0, DC: 1.5,
	DD: 1.0, FD: 0.5, FF: 0.0, DZ: 0.0,
}

// Points returns the GPA contribution of a letter. Unknown letters count
// as zero, matching DZ.
func Points(letter Letter) float64 {
	return letterPoints[letter]
}

// Result is the full derived triple for one exam attempt.
type Result struct {
	Score       float64
	Letter      Letter
	Eligibility string
}

// Compute derives score, letter and eligibility from the raw inputs.
// The numeric score is computed even when absences force DZ.
func Compute(midterm, finalExam float64, absences int) Result {
	score := WeightedScore(midterm, finalExam)
	letter := LetterFor(score)
	if absences > MaxAbsences {
		letter = DZ
	}
	return Result{
		Score:       score,
		Letter:      letter,
		Eligibility: EligibilityFor(letter),
	}
}

// Sync recomputes every derived field of g from its inputs. It is the
// single recompute-and-sync operation: callers that want the source
// system's view-triggered persistence invoke Sync then save; pure reads
// call it on a copy.
func Sync(g *models.Grade) {
	if g.MidtermGrade == nil || g.FinalExamGrade == nil {
		return
	}

	res := Compute(*g.MidtermGrade, *g.FinalExamGrade, g.Absences)
	g.FinalGrade = &res.Score
	letter := string(res.Letter)
	g.LetterGrade = &letter
	g.Eligibility = res.Eligibility

	if g.ResitExamGrade != nil {
		// Absences keep penalizing the resit attempt.
		resit := Compute(*g.MidtermGrade, *g.ResitExamGrade, g.Absences)
		g.ResitFinalGrade = &resit.Score
		resitLetter := string(resit.Letter)
		g.ResitLetterGrade = &resitLetter
	} else {
		g.ResitFinalGrade = nil
		g.ResitLetterGrade = nil
	}
}

// GPA averages the student's grade points, preferring the resit attempt
// whenever one exists for a course. The second return is false when no
// grade record contributes: that means "no GPA", not 0.0.
func GPA(grades []models.Grade) (float64, bool) {
	var total float64
	var count int

	for i := range grades {
		g := grades[i]
		if g.MidtermGrade == nil || g.FinalExamGrade == nil {
			continue
		}
		Sync(&g)

		letter := Letter(*g.LetterGrade)
		if g.ResitLetterGrade != nil {
			letter = Letter(*g.ResitLetterGrade)
		}
		total += Points(letter)
		count++
	}

	if count == 0 {
		return 0, false
	}
	return math.Round(total/float64(count)*100) / 100, true
}
