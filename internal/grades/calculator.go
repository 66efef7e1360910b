package grades

import "math"

type letterBand struct {
	min    float64
	letter string
	points float64
}

// letterScale is ordered from the highest band down.
var letterScale = []letterBand{
	{97, "A+", 4.0},
	{93, "A", 4.0},
	{90, "A-", 3.7},
	{87, "B+", 3.3},
	{83, "B", 3.0},
	{80, "B-", 2.7},
	{77, "C+", 2.3},
	{73, "C", 2.0},
	{70, "C-", 1.7},
	{60, "D", 1.0},
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percentage returns score as a percentage of maxScore, rounded to two
// decimals. A zero maxScore yields zero.
func Percentage(score, maxScore float64) float64 {
	if maxScore == 0 {
		return 0
	}
	return Round2(score / maxScore * 100)
}

// LetterGrade maps a percentage onto the letter scale.
func LetterGrade(percentage float64) string {
	for _, band := range letterScale {
		if percentage >= band.min {
			return band.letter
		}
	}
	return "F"
}

// GPAPoints returns the grade points of a letter. Unknown letters score zero.
func GPAPoints(letter string) float64 {
	for _, band := range letterScale {
		if band.letter == letter {
			return band.points
		}
	}
	return 0
}
