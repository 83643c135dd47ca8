package domain

import "time"

// Admin accounts are seeded from configuration; there is no public sign-up.
type Admin struct {
	AdminID      string    `json:"id" dynamodbav:"admin_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}
