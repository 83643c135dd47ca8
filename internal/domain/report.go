package domain

import "time"

type ApplicationCounts struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Accepted    int `json:"accepted"`
}

type RecentStudent struct {
	StudentID string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type RecentRecruiter struct {
	RecruiterID string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type RecentInternship struct {
	InternshipID string           `json:"id"`
	Title        string           `json:"title"`
	CompanyName  string           `json:"company_name"`
	Status       InternshipStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

type DashboardStats struct {
	TotalStudents     int                `json:"total_students"`
	TotalRecruiters   int                `json:"total_recruiters"`
	TotalInternships  int                `json:"total_internships"`
	ActiveInternships int                `json:"active_internships"`
	Applications      ApplicationCounts  `json:"applications"`
	RecentStudents    []RecentStudent    `json:"recent_students"`
	RecentRecruiters  []RecentRecruiter  `json:"recent_recruiters"`
	RecentInternships []RecentInternship `json:"recent_internships"`
}

// TimelineSeries holds parallel arrays; every slice has len(Labels) entries.
type TimelineSeries struct {
	Range        string   `json:"range"`
	Labels       []string `json:"labels"`
	Students     []int    `json:"students"`
	Recruiters   []int    `json:"recruiters"`
	Internships  []int    `json:"internships"`
	Applications []int    `json:"applications"`
}

type Trends struct {
	Students     string `json:"students"`
	Recruiters   string `json:"recruiters"`
	Internships  string `json:"internships"`
	Applications string `json:"applications"`
}
