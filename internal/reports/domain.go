package reports

import "github.com/student-records/student-api/internal/grades"

// GradeReport summarises one student's grades within one class.
type GradeReport struct {
	StudentID         string         `json:"studentId"`
	StudentName       string         `json:"studentName"`
	ClassID           string         `json:"classId"`
	ClassName         string         `json:"className"`
	Grades            []grades.Grade `json:"grades"`
	AverageScore      float64        `json:"averageScore"`
	AveragePercentage float64        `json:"averagePercentage"`
	LetterGrade       string         `json:"letterGrade"`
}

// PerformanceReport aggregates a student's class reports into a GPA.
type PerformanceReport struct {
	StudentID    string        `json:"studentId"`
	OverallGPA   float64       `json:"overallGPA"`
	TotalClasses int           `json:"totalClasses"`
	Reports      []GradeReport `json:"reports"`
}
