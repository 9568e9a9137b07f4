package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	PackageID uuid.UUID `db:"package_id"`
	Rating    int       `db:"rating"` // 1-5
	Comment   *string   `db:"comment"`
}

// ReviewWithAuthor is a review joined with the reviewer's display name.
type ReviewWithAuthor struct {
	Review
	AuthorName *string `db:"author_name"`
}
