package students

import "time"

// DefaultSection is assigned when a student is enrolled without one.
const DefaultSection = "A"

// UserSummary is the account information shown with a student.
type UserSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName joins first and last name.
func (u UserSummary) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Student is an enrolled student record linked to a user account.
type Student struct {
	ID               string      `json:"id"`
	UserID           string      `json:"userId"`
	StudentID        string      `json:"studentId"`
	DateOfBirth      time.Time   `json:"dateOfBirth"`
	EnrollmentDate   time.Time   `json:"enrollmentDate"`
	Grade            string      `json:"grade"`
	Section          string      `json:"section"`
	ParentID         *string     `json:"parentId,omitempty"`
	Address          *string     `json:"address,omitempty"`
	PhoneNumber      *string     `json:"phoneNumber,omitempty"`
	EmergencyContact *string     `json:"emergencyContact,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	User             UserSummary `json:"user"`
}

// CreateStudentInput is the payload for enrolling a student.
type CreateStudentInput struct {
	UserID           string  `json:"userId" validate:"required,uuid"`
	StudentID        string  `json:"studentId" validate:"required,min=1,max=50"`
	DateOfBirth      string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EnrollmentDate   string  `json:"enrollmentDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Grade            string  `json:"grade" validate:"required,min=1"`
	Section          string  `json:"section"`
	ParentID         *string `json:"parentId" validate:"omitempty,uuid"`
	Address          *string `json:"address"`
	PhoneNumber      *string `json:"phoneNumber"`
	EmergencyContact *string `json:"emergencyContact"`
}

// UpdateStudentInput is a partial update; nil fields are left unchanged.
type UpdateStudentInput struct {
	Grade            *string `json:"grade" validate:"omitempty,min=1"`
	Section          *string `json:"section"`
	Address          *string `json:"address"`
	PhoneNumber      *string `json:"phoneNumber"`
	EmergencyContact *string `json:"emergencyContact"`
}

// NewStudent is the row written on creation.
type NewStudent struct {
	UserID           string
	StudentID        string
	DateOfBirth      time.Time
	EnrollmentDate   time.Time
	Grade            string
	Section          string
	ParentID         *string
	Address          *string
	PhoneNumber      *string
	EmergencyContact *string
}
