// internal/domain/models/dependents.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dependent records: rows in unrelated collections that carry cached copies of
// canonical display names and titles. The cascade updater overwrites these
// copies when the canonical value changes; nothing else in the system writes
// the denormalized fields.
//
// Some of these rows never stored a foreign key to the canonical entity (see
// NonInstructorDraft.Name and Course.Instructor); updates to those match by
// the old string value, which is a known weakness of the inherited data model.

// StudentAttendance is one attendance mark for a student in a session.
// Also used, via the student_attendance_drafts collection, for unsaved drafts.
type StudentAttendance struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StudentID   string    `bson:"student_id" json:"student_id"`
	StudentName string    `bson:"student_name" json:"student_name"`
	CourseID    string    `bson:"course_id,omitempty" json:"course_id,omitempty"`
	CourseName  string    `bson:"course_name,omitempty" json:"course_name,omitempty"`
	CohortID    string    `bson:"cohort_id,omitempty" json:"cohort_id,omitempty"`
	CohortName  string    `bson:"cohort_name,omitempty" json:"cohort_name,omitempty"`
	Status      string    `bson:"status" json:"status"`
	MarkedAt    time.Time `bson:"marked_at" json:"marked_at"`
}

// InstructorAttendance is one attendance mark for an instructor.
type InstructorAttendance struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	InstructorID   string    `bson:"instructor_id" json:"instructor_id"`
	InstructorName string    `bson:"instructor_name" json:"instructor_name"`
	Status         string    `bson:"status" json:"status"`
	MarkedAt       time.Time `bson:"marked_at" json:"marked_at"`
}

// NonInstructorAttendance is one attendance mark for non-teaching staff.
// Also used, via the noninstructor_attendance_drafts collection, for drafts.
type NonInstructorAttendance struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StaffID   string    `bson:"staff_id" json:"staff_id"`
	StaffName string    `bson:"staff_name" json:"staff_name"`
	Status    string    `bson:"status" json:"status"`
	MarkedAt  time.Time `bson:"marked_at" json:"marked_at"`
}

// NonInstructorDraft is an unsubmitted staff record. These rows carry no staff
// id at all, only the typed name, so cascades match them by the old name value.
type NonInstructorDraft struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	Name      string    `bson:"name" json:"name"`
	Role      string    `bson:"role,omitempty" json:"role,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Enrollment is a student's enrollment in a course.
type Enrollment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StudentID   string    `bson:"student_id" json:"student_id"`
	StudentName string    `bson:"student_name" json:"student_name"`
	CourseID    string    `bson:"course_id" json:"course_id"`
	CourseName  string    `bson:"course_name" json:"course_name"`
	Status      string    `bson:"status" json:"status"`
	EnrolledAt  time.Time `bson:"enrolled_at" json:"enrolled_at"`
}

// Payment is a pending or recorded payment request.
type Payment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StudentID          string    `bson:"student_id" json:"student_id"`
	StudentName        string    `bson:"student_name" json:"student_name"`
	CohortID           string    `bson:"cohort_id,omitempty" json:"cohort_id,omitempty"`
	CohortName         string    `bson:"cohort_name,omitempty" json:"cohort_name,omitempty"`
	CourseID           string    `bson:"course_id,omitempty" json:"course_id,omitempty"`
	EnrolledCourseName string    `bson:"enrolled_course_name,omitempty" json:"enrolled_course_name,omitempty"`
	Amount             int64     `bson:"amount" json:"amount"`
	Currency           string    `bson:"currency,omitempty" json:"currency,omitempty"`
	Status             string    `bson:"status" json:"status"`
	DueAt              time.Time `bson:"due_at,omitempty" json:"due_at,omitempty"`
}

// PaymentRecord is a settled payment line in the ledger. PaymentTransaction
// (payment_transactions) shares this shape for gateway-level entries.
type PaymentRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StudentID   string    `bson:"student_id" json:"student_id"`
	StudentName string    `bson:"student_name" json:"student_name"`
	CourseID    string    `bson:"course_id,omitempty" json:"course_id,omitempty"`
	CourseName  string    `bson:"course_name,omitempty" json:"course_name,omitempty"`
	Amount      int64     `bson:"amount" json:"amount"`
	PaidAt      time.Time `bson:"paid_at" json:"paid_at"`
}

// MonthlySubscription is a recurring billing agreement for a student.
type MonthlySubscription struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StudentID   string `bson:"student_id" json:"student_id"`
	StudentName string `bson:"student_name" json:"student_name"`
	CourseID    string `bson:"course_id,omitempty" json:"course_id,omitempty"`
	CourseName  string `bson:"course_name,omitempty" json:"course_name,omitempty"`
	CohortID    string `bson:"cohort_id,omitempty" json:"cohort_id,omitempty"`
	CohortName  string `bson:"cohort_name,omitempty" json:"cohort_name,omitempty"`
	Amount      int64  `bson:"amount" json:"amount"`
	Status      string `bson:"status" json:"status"`
}

// ScheduleEntry is one slot on the timetable. Instructor holds the
// instructor's id; InstructorName is the denormalized display copy.
type ScheduleEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	Instructor     string    `bson:"instructor" json:"instructor"`
	InstructorName string    `bson:"instructor_name" json:"instructor_name"`
	CohortID       string    `bson:"cohort_id,omitempty" json:"cohort_id,omitempty"`
	StartsAt       time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt         time.Time `bson:"ends_at" json:"ends_at"`
}
