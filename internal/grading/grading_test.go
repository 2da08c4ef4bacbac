package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusops/registrar-back/internal/models"
)

func f(v float64) *float64 { return &v }

func TestWeightedScore(t *testing.T) {
	assert.Equal(t, 83.0, WeightedScore(80, 85))
	assert.Equal(t, 0.0, WeightedScore(0, 0))
	assert.Equal(t, 100.0, WeightedScore(100, 100))
}

func TestLetterFor_Bands(t *testing.T) {
	testCases := []struct {
		name     string
		score    float64
		expected Letter
	}{
		{"perfect score", 100, AA},
		{"AA lower edge", 90, AA},
		{"just below AA", 89.999, BA},
		{"BA lower edge", 85, BA},
		{"BB lower edge", 80, BB},
		{"CB lower edge", 75, CB},
		{"CC lower edge", 70, CC},
		{"DC lower edge", 65, DC},
		{"DD lower edge", 60, DD},
		{"FD lower edge", 55, FD},
		{"just below FD", 54.999, FF},
		{"zero", 0, FF},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LetterFor(tc.score))
		})
	}
}

// Walking [0,100] in small steps must always land in exactly one band,
// and stepping past each threshold must switch bands at the threshold
// itself, not after it.
func TestLetterFor_PartitionHasNoGaps(t *testing.T) {
	order := []Letter{FF, FD, DD, DC, CC, CB, BB, BA, AA}
	rank := make(map[Letter]int, len(order))
	for i, l := range order {
		rank[l] = i
	}

	prev := LetterFor(0)
	for s := 0.0; s <= 100.0; s += 0.125 {
		cur := LetterFor(s)
		assert.Contains(t, rank, cur, "score %v produced unknown letter", s)
		assert.GreaterOrEqual(t, rank[cur], rank[prev], "letters must not regress at score %v", s)
		prev = cur
	}

	for _, threshold := range []float64{55, 60, 65, 70, 75, 80, 85, 90} {
		below := LetterFor(threshold - 0.001)
		at := LetterFor(threshold)
		assert.Equal(t, rank[below]+1, rank[at], "threshold %v must map to the higher band", threshold)
	}
}

func TestEligibilityFor_AllLetters(t *testing.T) {
	eligible := map[Letter]bool{DD: true, FD: true, FF: true}
	for _, l := range []Letter{AA, BA, BB, CB, CC, DC, DD, FD, FF, DZ} {
		want := NotEligible
		if eligible[l] {
			want = Eligible
		}
		assert.Equal(t, want, EligibilityFor(l), "letter %s", l)
	}
}

func TestCompute(t *testing.T) {
	testCases := []struct {
		name     string
		midterm  float64
		final    float64
		absences int
		score    float64
		letter   Letter
		elig     string
	}{
		{"worked example 80/85", 80, 85, 0, 83.0, BB, NotEligible},
		{"absence override keeps score", 80, 85, 4, 83.0, DZ, NotEligible},
		{"absences at limit stay score-derived", 80, 85, 3, 83.0, BB, NotEligible},
		{"failing grade is eligible", 40, 50, 0, 46.0, FF, Eligible},
		{"failing grade with absences is not", 40, 50, 10, 46.0, DZ, NotEligible},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Compute(tc.midterm, tc.final, tc.absences)
			assert.Equal(t, tc.score, res.Score)
			assert.Equal(t, tc.letter, res.Letter)
			assert.Equal(t, tc.elig, res.Eligibility)
		})
	}
}

func TestSync(t *testing.T) {
	g := models.Grade{MidtermGrade: f(80), FinalExamGrade: f(85)}
	Sync(&g)

	assert.Equal(t, 83.0, *g.FinalGrade)
	assert.Equal(t, "BB", *g.LetterGrade)
	assert.Equal(t, NotEligible, g.Eligibility)
	assert.Nil(t, g.ResitFinalGrade)
	assert.Nil(t, g.ResitLetterGrade)

	g.ResitExamGrade = f(95)
	Sync(&g)
	assert.Equal(t, 89.0, *g.ResitFinalGrade)
	assert.Equal(t, "BA", *g.ResitLetterGrade)
	// Original triple untouched by the resit attempt.
	assert.Equal(t, "BB", *g.LetterGrade)

	// Clearing the resit score clears the derived resit fields.
	g.ResitExamGrade = nil
	Sync(&g)
	assert.Nil(t, g.ResitFinalGrade)
	assert.Nil(t, g.ResitLetterGrade)
}

func TestSync_AbsencesPenalizeResitToo(t *testing.T) {
	g := models.Grade{
		MidtermGrade:   f(80),
		FinalExamGrade: f(85),
		ResitExamGrade: f(95),
		Absences:       4,
	}
	Sync(&g)

	assert.Equal(t, "DZ", *g.LetterGrade)
	assert.Equal(t, "DZ", *g.ResitLetterGrade)
	assert.Equal(t, 89.0, *g.ResitFinalGrade)
}

func TestSync_MissingInputsLeaveDerivedAlone(t *testing.T) {
	g := models.Grade{MidtermGrade: f(80)}
	Sync(&g)
	assert.Nil(t, g.FinalGrade)
	assert.Nil(t, g.LetterGrade)
}

func TestGPA(t *testing.T) {
	t.Run("no grades means no GPA", func(t *testing.T) {
		gpa, ok := GPA(nil)
		assert.False(t, ok)
		assert.Equal(t, 0.0, gpa)
	})

	t.Run("single DD course is exactly 1.0", func(t *testing.T) {
		grades := []models.Grade{{MidtermGrade: f(60), FinalExamGrade: f(60)}}
		gpa, ok := GPA(grades)
		assert.True(t, ok)
		assert.Equal(t, 1.0, gpa)
	})

	t.Run("mean is rounded to two decimals", func(t *testing.T) {
		grades := []models.Grade{
			{MidtermGrade: f(90), FinalExamGrade: f(95)}, // AA, 4.0
			{MidtermGrade: f(60), FinalExamGrade: f(60)}, // DD, 1.0
			{MidtermGrade: f(60), FinalExamGrade: f(60)}, // DD, 1.0
		}
		gpa, ok := GPA(grades)
		assert.True(t, ok)
		assert.Equal(t, 2.0, gpa)
	})

	t.Run("resit attempt wins over original", func(t *testing.T) {
		grades := []models.Grade{
			{
				MidtermGrade:   f(60),
				FinalExamGrade: f(60), // DD on its own
				ResitExamGrade: f(100),
			},
		}
		gpa, ok := GPA(grades)
		assert.True(t, ok)
		// 0.4*60 + 0.6*100 = 84 -> BB -> 3.0
		assert.Equal(t, 3.0, gpa)
	})

	t.Run("absence failure scores zero points", func(t *testing.T) {
		grades := []models.Grade{
			{MidtermGrade: f(90), FinalExamGrade: f(95), Absences: 5},
		}
		gpa, ok := GPA(grades)
		assert.True(t, ok)
		assert.Equal(t, 0.0, gpa)
	})
}
