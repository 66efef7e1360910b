package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.Equal(t, 85.0, Percentage(17, 20))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 33.33, Percentage(1, 3))
}

func TestLetterGrade(t *testing.T) {
	cases := map[float64]string{
		100:   "A+",
		104:   "A+",
		97:    "A+",
		96.99: "A",
		92.5:  "A-",
		90:    "A-",
		88:    "B+",
		83:    "B",
		80.1:  "B-",
		78:    "C+",
		73:    "C",
		70:    "C-",
		65:    "D",
		59.99: "F",
		0:     "F",
	}
	for pct, want := range cases {
		assert.Equal(t, want, LetterGrade(pct), "percentage %v", pct)
	}
}

func TestGPAPoints(t *testing.T) {
	assert.Equal(t, 4.0, GPAPoints("A+"))
	assert.Equal(t, 4.0, GPAPoints("A"))
	assert.Equal(t, 2.7, GPAPoints("B-"))
	assert.Equal(t, 1.0, GPAPoints("D"))
	assert.Equal(t, 0.0, GPAPoints("F"))
	assert.Equal(t, 0.0, GPAPoints("Z"))
}
