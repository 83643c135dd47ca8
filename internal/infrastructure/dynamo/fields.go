package dynamo

// DynamoDB attribute names used in update and condition expressions across repos.
const (
	fieldStatus       = "status"
	fieldUpdatedAt    = "updated_at"
	fieldIsRead       = "is_read"
	fieldIsClicked    = "is_clicked"
	fieldReminderSent = "reminder_sent"
	fieldDeadline     = "deadline"
	fieldCreatedAt    = "created_at"
	fieldAppliedAt    = "applied_at"
)

// Secondary index names created by Bootstrap.
const (
	indexEmail            = "email-index"
	indexPostedBy         = "posted_by-index"
	indexApplicationID    = "application_id-index"
	indexInternshipID     = "internship_id-index"
	indexRecipientCreated = "recipient_id-created_at-index"
)
