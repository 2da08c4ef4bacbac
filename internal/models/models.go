package models

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"-"`

	Groups []Group `gorm:"many2many:user_groups;" json:"groups,omitempty"`
}

type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// StudentProfile is deleted together with its User.
// GeneratedPassword keeps the issued credential in cleartext so the
// secretariat can hand it out later; losing it means recreating the account.
type StudentProfile struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	UserID            uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Program           string `gorm:"size:100" json:"program"`
	GeneratedPassword string `gorm:"size:100" json:"-"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
}

type Course struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// Grade holds one student's result for one course. The composite unique
// index enforces "at most one grade per student per course" at the storage
// layer. FinalGrade, LetterGrade, Eligibility and the resit counterparts are
// derived: grading.Sync is the only place allowed to assign them.
type Grade struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_student_course" json:"student_id"`
	CourseID  uint `gorm:"not null;uniqueIndex:idx_student_course" json:"course_id"`

	MidtermGrade   *float64 `json:"midterm_grade"`
	FinalExamGrade *float64 `json:"final_exam_grade"`
	FinalGrade     *float64 `json:"final_grade"`
	LetterGrade    *string  `gorm:"size:2" json:"letter_grade"`
	Eligibility    string   `gorm:"size:50" json:"eligibility"`
	Absences       int      `gorm:"default:0" json:"absences"`
	DeclaredResit  bool     `gorm:"default:false" json:"declared_resit"`

	ResitExamGrade   *float64 `json:"resit_exam_grade"`
	ResitFinalGrade  *float64 `json:"resit_final_grade"`
	ResitLetterGrade *string  `gorm:"size:2" json:"resit_letter_grade"`

	Student StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"student,omitempty"`
	Course  Course         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"course,omitempty"`
}

// Announcement keeps a weak reference to the poster: deleting the user
// nulls PostedByID instead of removing the announcement.
type Announcement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Text       string    `gorm:"not null" json:"text"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	PostedByID *uint     `json:"posted_by_id"`

	PostedBy *User `gorm:"foreignKey:PostedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"posted_by,omitempty"`
}

// Place and Date are free text on purpose: the secretariat uploads
// whatever the printed schedule says.
type ResitExamSchedule struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"uniqueIndex;not null" json:"course_id"`
	Place    string `gorm:"size:100" json:"place"`
	Date     string `gorm:"size:100" json:"date"`

	Course Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"course,omitempty"`
}

type ResitExamContent struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	CourseID          uint   `gorm:"uniqueIndex;not null" json:"course_id"`
	ExamType          string `gorm:"size:50" json:"exam_type"`
	NumQuestions      int    `json:"num_questions"`
	CalculatorAllowed bool   `gorm:"default:false" json:"calculator_allowed"`
	AdditionalNotes   string `json:"additional_notes"`

	Course Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"course,omitempty"`
}
