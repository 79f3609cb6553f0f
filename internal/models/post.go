package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID       uuid.UUID
	AuthorID uuid.UUID

	// Author is the owner's username, filled by the repository for display
	Author string

	// Seq is assigned by the database on insert and breaks ordering ties
	// between posts created within the same timestamp
	Seq int64

	Title     string
	Content   string
	CreatedAt time.Time
}
