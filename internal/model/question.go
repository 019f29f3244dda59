package model

import "time"

// Question is the parent of a set of answers. The answers store only ever
// consumes its ID.
type Question struct {
	ID        int64     `json:"id"        db:"id"`
	UserID    int64     `json:"userId"    db:"user_id"`
	Author    string    `json:"author"    db:"author"`
	Title     string    `json:"title"     db:"title"`
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
