package model

import "time"

// Submission is a single testimonial submitted through the public intake
// form. Role, Company and Email are optional; an empty string means the
// visitor left the field blank.
//
// ApprovedAt is the only field that ever changes after creation. It is nil
// while the submission sits in the moderation queue and is set exactly once
// when an admin approves it. Visibility on the public wall is exactly
// "ApprovedAt != nil" — never inferred from anything else.
type Submission struct {
	ID         int64      `json:"id"`
	FormID     int64      `json:"formId"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Company    string     `json:"company"`
	Quote      string     `json:"quote"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedAt *time.Time `json:"approvedAt"`
}

// Approved reports whether the submission has passed moderation.
func (s *Submission) Approved() bool {
	return s.ApprovedAt != nil
}
