package domain

import "time"

// ResumeFile is the live résumé reference on a student profile. URL is the opaque
// blob-store key; the core only checks its presence.
type ResumeFile struct {
	URL          string    `json:"url" dynamodbav:"url"`
	OriginalName string    `json:"original_name" dynamodbav:"original_name"`
	ContentType  string    `json:"content_type,omitempty" dynamodbav:"content_type"`
	Version      int       `json:"version" dynamodbav:"version"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type Certificate struct {
	CertificateID string    `json:"id" dynamodbav:"certificate_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Issuer        string    `json:"issuer,omitempty" dynamodbav:"issuer"`
	URL           string    `json:"url,omitempty" dynamodbav:"url"`
	UploadedAt    time.Time `json:"uploaded_at" dynamodbav:"uploaded_at"`
}

type Education struct {
	Institution string `json:"institution" dynamodbav:"institution"`
	Degree      string `json:"degree" dynamodbav:"degree"`
	Field       string `json:"field,omitempty" dynamodbav:"field"`
	StartYear   int    `json:"start_year,omitempty" dynamodbav:"start_year"`
	EndYear     int    `json:"end_year,omitempty" dynamodbav:"end_year"`
}

type Student struct {
	StudentID    string        `json:"id" dynamodbav:"student_id"`
	Name         string        `json:"name" dynamodbav:"name"`
	Email        string        `json:"email" dynamodbav:"email"`
	PasswordHash string        `json:"-" dynamodbav:"password_hash"`
	Phone        string        `json:"phone,omitempty" dynamodbav:"phone"`
	Location     string        `json:"location,omitempty" dynamodbav:"location"`
	Bio          string        `json:"bio,omitempty" dynamodbav:"bio"`
	Skills       []string      `json:"skills" dynamodbav:"skills"`
	Education    []Education   `json:"education" dynamodbav:"education"`
	Resume       *ResumeFile   `json:"resume,omitempty" dynamodbav:"resume,omitempty"`
	Certificates []Certificate `json:"certificates" dynamodbav:"certificates"`
	CreatedAt    time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// HasResume reports whether a non-empty résumé file reference is on file.
func (s *Student) HasResume() bool {
	return s.Resume != nil && s.Resume.URL != ""
}

type CreateStudentRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone"`
}

type UpdateStudentRequest struct {
	Name      *string      `json:"name" validate:"omitempty,min=1"`
	Phone     *string      `json:"phone"`
	Location  *string      `json:"location"`
	Bio       *string      `json:"bio" validate:"omitempty,max=2000"`
	Skills    *[]string    `json:"skills"`
	Education *[]Education `json:"education"`
}
