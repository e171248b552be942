package recruiting

import "time"

// Application status constants.
const (
	StatusReceived    = "received"
	StatusReviewed    = "reviewed"
	StatusShortlisted = "shortlisted"
	StatusInterview   = "interview"
	StatusOffer       = "offer"
	StatusRejected    = "rejected"
)

// User role constants.
const (
	RoleAdmin       = "admin"
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

// Candidate is the person who applied for a job.
// Owned by the job-application subsystem; the notification core only reads it.
type Candidate struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// FullName returns the candidate's display name.
func (c Candidate) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Job is an open position candidates apply for.
type Job struct {
	ID         string
	Title      string
	Department string
}

// User is a staff account (admin or interviewer).
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// IsInterviewer returns true if the user holds the interviewer capability.
func (u User) IsInterviewer() bool {
	return u.Role == RoleInterviewer || u.Role == RoleAdmin
}

// Application links a candidate to a job. ShortlistedBy is the admin who moved
// the application to shortlisted, if any.
type Application struct {
	ID            string
	Status        string
	Candidate     Candidate
	Job           Job
	ShortlistedBy *User
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
