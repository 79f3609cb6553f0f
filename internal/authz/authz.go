// Package authz holds the ownership rule for posts.
//
// The rule is a plain function composed explicitly by every mutating
// handler rather than hidden in middleware: the post must be fetched
// first, so a missing post stays "not found" while a foreign one is
// "forbidden".
package authz

import (
	"github.com/google/uuid"

	"github.com/dkarpov/goblog/internal/models"
)

// CanModify reports whether user may edit or delete post
// Edit and delete share the same permission: being the author
func CanModify(user models.User, post models.Post) bool {
	if user.ID == uuid.Nil {
		return false
	}
	return user.ID == post.AuthorID
}
