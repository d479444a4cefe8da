package submission

import "time"

// StatusCompleted is the only submission status in use.
const StatusCompleted = "completed"

// Submission records a student's completion of a specific assignment.
// At most one exists per (assignment, student) pair.
type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	CompletedAt  time.Time `json:"completed_at"` // UTC
	Status       string    `json:"status"`
}
