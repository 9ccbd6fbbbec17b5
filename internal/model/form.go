package model

import "time"

// Form is a testimonial intake form. The slug is the external-facing
// identifier used in public URLs and is globally unique.
type Form struct {
	ID        int64     `json:"id"`
	CreatorID int64     `json:"creatorId"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// FormDetail is the public projection of a Form joined with its creator's
// display name, served on the intake page.
type FormDetail struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	CreatorName string `json:"creatorName"`
}
