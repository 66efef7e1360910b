package grades

import "time"

// Category classifies an assessment.
type Category string

// Assessment categories.
const (
	CategoryAssignment    Category = "ASSIGNMENT"
	CategoryQuiz          Category = "QUIZ"
	CategoryMidterm       Category = "MIDTERM"
	CategoryFinal         Category = "FINAL"
	CategoryProject       Category = "PROJECT"
	CategoryParticipation Category = "PARTICIPATION"
)

// Grade is a single scored assessment.
type Grade struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"studentId"`
	ClassID        string    `json:"classId"`
	TeacherID      string    `json:"teacherId"`
	AssignmentName string    `json:"assignmentName"`
	Category       Category  `json:"category"`
	Score          float64   `json:"score"`
	MaxScore       float64   `json:"maxScore"`
	Percentage     float64   `json:"percentage"`
	LetterGrade    string    `json:"letterGrade"`
	GradeDate      time.Time `json:"gradeDate"`
	Comments       *string   `json:"comments,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateGradeInput is the payload for recording a grade.
type CreateGradeInput struct {
	StudentID      string   `json:"studentId" validate:"required,uuid"`
	ClassID        string   `json:"classId" validate:"required,uuid"`
	AssignmentName string   `json:"assignmentName" validate:"required,min=1,max=200"`
	Category       Category `json:"category" validate:"required,oneof=ASSIGNMENT QUIZ MIDTERM FINAL PROJECT PARTICIPATION"`
	Score          *float64 `json:"score" validate:"required,gte=0"`
	MaxScore       float64  `json:"maxScore" validate:"required,gt=0"`
	GradeDate      string   `json:"gradeDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Comments       *string  `json:"comments"`
}

// UpdateGradeInput is a partial update; nil fields are left unchanged.
type UpdateGradeInput struct {
	Score    *float64  `json:"score" validate:"omitempty,gte=0"`
	MaxScore *float64  `json:"maxScore" validate:"omitempty,gt=0"`
	Comments *string   `json:"comments"`
	Category *Category `json:"category" validate:"omitempty,oneof=ASSIGNMENT QUIZ MIDTERM FINAL PROJECT PARTICIPATION"`
}
