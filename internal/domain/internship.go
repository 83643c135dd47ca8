package domain

import "time"

type InternshipStatus string

const (
	InternshipActive InternshipStatus = "active"
	InternshipClosed InternshipStatus = "closed"
	InternshipDraft  InternshipStatus = "draft"
)

type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryMarketing  Category = "marketing"
	CategoryDesign     Category = "design"
	CategoryFinance    Category = "finance"
	CategoryHR         Category = "hr"
	CategorySales      Category = "sales"
	CategoryOther      Category = "other"
)

type Skill struct {
	Name  string `json:"name" dynamodbav:"name" validate:"required"`
	Level string `json:"level" dynamodbav:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type Internship struct {
	InternshipID string           `json:"id" dynamodbav:"internship_id"`
	Title        string           `json:"title" dynamodbav:"title"`
	CompanyName  string           `json:"company_name" dynamodbav:"company_name"`
	Location     string           `json:"location" dynamodbav:"location"`
	WorkType     string           `json:"work_type" dynamodbav:"work_type"`
	Category     Category         `json:"category" dynamodbav:"category"`
	Stipend      string           `json:"stipend" dynamodbav:"stipend"`
	Duration     string           `json:"duration" dynamodbav:"duration"`
	Description  string           `json:"description" dynamodbav:"description"`
	Skills       []Skill          `json:"skills_required" dynamodbav:"skills_required"`
	Requirements []string         `json:"requirements" dynamodbav:"requirements"`
	Perks        []string         `json:"perks" dynamodbav:"perks"`
	PostedBy     string           `json:"posted_by" dynamodbav:"posted_by"`
	Deadline     *time.Time       `json:"deadline,omitempty" dynamodbav:"deadline,omitempty"`
	Status       InternshipStatus `json:"status" dynamodbav:"status"`
	// ReminderSent is set once the owner has been warned about the approaching deadline.
	ReminderSent bool      `json:"-" dynamodbav:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`

	Owner *Recruiter `json:"owner,omitempty" dynamodbav:"-"`
}

// DeadlinePassed reports whether the deadline is set and strictly before now.
func (i *Internship) DeadlinePassed(now time.Time) bool {
	return i.Deadline != nil && i.Deadline.Before(now)
}

// Open reports whether students may apply: active and not past its deadline.
func (i *Internship) Open(now time.Time) bool {
	return i.Status == InternshipActive && !i.DeadlinePassed(now)
}

type InternshipInput struct {
	Title        string           `json:"title" validate:"required"`
	CompanyName  string           `json:"company_name"`
	Location     string           `json:"location" validate:"required"`
	WorkType     string           `json:"work_type" validate:"required"`
	Category     Category         `json:"category" validate:"required,oneof=technology marketing design finance hr sales other"`
	Stipend      string           `json:"stipend"`
	Duration     string           `json:"duration" validate:"required"`
	Description  string           `json:"description" validate:"required"`
	Skills       []Skill          `json:"skills_required" validate:"dive"`
	Requirements []string         `json:"requirements"`
	Perks        []string         `json:"perks"`
	Deadline     string           `json:"deadline"` // expected format: YYYY-MM-DD
	Status       InternshipStatus `json:"status" validate:"omitempty,oneof=active closed draft"`
}

type InternshipFilter struct {
	Category Category
	Search   string
	WorkType string
}
