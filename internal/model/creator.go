// Package model defines the data structures used throughout the application.
package model

import "time"

// Creator is the owner of one or more testimonial forms. Created together
// with its first Form and immutable afterwards.
type Creator struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
