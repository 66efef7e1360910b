package classes

import "time"

// Class is a course section taught by one teacher.
type Class struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Description  *string   `json:"description,omitempty"`
	TeacherID    string    `json:"teacherId"`
	Subject      string    `json:"subject"`
	Grade        string    `json:"grade"`
	Section      *string   `json:"section,omitempty"`
	Schedule     *string   `json:"schedule,omitempty"`
	MaxStudents  *int      `json:"maxStudents,omitempty"`
	AcademicYear string    `json:"academicYear"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateClassInput is the payload for creating a class.
type CreateClassInput struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Code         string  `json:"code" validate:"required,min=1,max=50"`
	Description  *string `json:"description"`
	TeacherID    string  `json:"teacherId" validate:"required,uuid"`
	Subject      string  `json:"subject" validate:"required,min=1"`
	Grade        string  `json:"grade" validate:"required,min=1"`
	Section      *string `json:"section"`
	Schedule     *string `json:"schedule"`
	MaxStudents  *int    `json:"maxStudents" validate:"omitempty,gt=0"`
	AcademicYear string  `json:"academicYear" validate:"required,min=1"`
}

// UpdateClassInput is a partial update; nil fields are left unchanged.
type UpdateClassInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	TeacherID   *string `json:"teacherId" validate:"omitempty,uuid"`
	Schedule    *string `json:"schedule"`
	MaxStudents *int    `json:"maxStudents" validate:"omitempty,gt=0"`
}
