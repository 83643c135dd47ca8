package domain

import "time"

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusAccepted    ApplicationStatus = "accepted"
)

// ApplicationStatuses lists every status in display order.
var ApplicationStatuses = []ApplicationStatus{StatusPending, StatusShortlisted, StatusRejected, StatusAccepted}

// SubmittedResume is the résumé copied onto an application at submission time.
type SubmittedResume struct {
	URL        string    `json:"url" dynamodbav:"url"`
	Filename   string    `json:"filename" dynamodbav:"filename"`
	UploadedAt time.Time `json:"uploaded_at" dynamodbav:"uploaded_at"`
}

type SubmittedCertificate struct {
	Name       string    `json:"name" dynamodbav:"name"`
	URL        string    `json:"url" dynamodbav:"url"`
	Filename   string    `json:"filename" dynamodbav:"filename"`
	UploadedAt time.Time `json:"uploaded_at" dynamodbav:"uploaded_at"`
}

// Application is keyed by (student_id, internship_id); application_id is a GSI.
type Application struct {
	ApplicationID         string                 `json:"id" dynamodbav:"application_id"`
	StudentID             string                 `json:"student_id" dynamodbav:"student_id"`
	InternshipID          string                 `json:"internship_id" dynamodbav:"internship_id"`
	Status                ApplicationStatus      `json:"status" dynamodbav:"status"`
	CoverLetter           string                 `json:"cover_letter,omitempty" dynamodbav:"cover_letter"`
	SubmittedResume       SubmittedResume        `json:"submitted_resume" dynamodbav:"submitted_resume"`
	SubmittedCertificates []SubmittedCertificate `json:"submitted_certificates" dynamodbav:"submitted_certificates"`
	ResumeVersion         int                    `json:"resume_version,omitempty" dynamodbav:"resume_version"`
	AppliedAt             time.Time              `json:"applied_at" dynamodbav:"applied_at"`
	UpdatedAt             time.Time              `json:"updated_at" dynamodbav:"updated_at"`
}

type InternshipSummary struct {
	InternshipID string           `json:"id"`
	Title        string           `json:"title"`
	CompanyName  string           `json:"company_name"`
	Location     string           `json:"location"`
	WorkType     string           `json:"work_type"`
	Stipend      string           `json:"stipend"`
	Deadline     *time.Time       `json:"deadline,omitempty"`
	Status       InternshipStatus `json:"status"`
}

type ApplicantSummary struct {
	StudentID string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Skills    []string `json:"skills"`
}

// StudentApplication is one row of the student's own listing. Internship is nil
// when the posting has since been deleted.
type StudentApplication struct {
	Application
	Internship *InternshipSummary `json:"internship"`
	Expired    bool               `json:"expired"`
}

type ReceivedApplication struct {
	Application
	Internship *InternshipSummary `json:"internship"`
	Applicant  *ApplicantSummary  `json:"applicant"`
}

type SubmitApplicationRequest struct {
	InternshipID string `json:"internship_id" validate:"required"`
	CoverLetter  string `json:"cover_letter" validate:"max=5000"`
}

type ChangeStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}
