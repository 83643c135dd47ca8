package domain

import "time"

type Recruiter struct {
	RecruiterID  string    `json:"id" dynamodbav:"recruiter_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CompanyName  string    `json:"company_name" dynamodbav:"company_name"`
	Website      string    `json:"website,omitempty" dynamodbav:"website"`
	Phone        string    `json:"phone,omitempty" dynamodbav:"phone"`
	Designation  string    `json:"designation,omitempty" dynamodbav:"designation"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateRecruiterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	CompanyName string `json:"company_name" validate:"required"`
	Website     string `json:"website" validate:"omitempty,url"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
}

type UpdateRecruiterRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	CompanyName *string `json:"company_name" validate:"omitempty,min=1"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Phone       *string `json:"phone"`
	Designation *string `json:"designation"`
}
