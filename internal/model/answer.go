// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Answer is a reply to a Question.
//
// ID is generated by the database on insert. UserID is the owning account and is
// NOT a foreign key: answers may be written on behalf of accounts that live in
// another system. QuestionID IS a foreign key: an answer cannot exist without
// its question.
type Answer struct {
	ID         int64     `json:"id"         db:"id"`
	UserID     int64     `json:"userId"     db:"user_id"`
	QuestionID int64     `json:"questionId" db:"question_id"`
	Author     string    `json:"author"     db:"author"`
	Content    string    `json:"content"    db:"content"`
	IsSolution bool      `json:"isSolution" db:"is_solution"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}
