package models

import (
	"time"
)

// DateLayout is the calendar-day format used for Post.Date.
const DateLayout = "2006-01-02"

type Post struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Text  string `json:"text" validate:"required"`
}

// Collection is ordered newest-first. New posts are prepended, never sorted.
type Collection []Post

// Draft holds the raw form fields of a post that has not been accepted yet.
type Draft struct {
	Title string `json:"title" validate:"notblank"`
	Text  string `json:"text" validate:"notblank"`
}

// FormatDate renders t as the creation day of a post. The day is taken in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// IsBlank reports whether every field of the post is empty. Blank posts are the
// bootstrap placeholder older clients wrote into the store.
func (p Post) IsBlank() bool {
	return p.Title == "" && p.Date == "" && p.Text == ""
}

// Prepend returns a new collection with p in front. c is left untouched.
func (c Collection) Prepend(p Post) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, p)
	return append(out, c...)
}

// Clone returns a copy of c that shares no backing array with it.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}
