package controllers

import (
	"pocketblog/models"
	"pocketblog/validation"
	"strings"
	"time"
)

// Compose validates the form fields and builds the post dated today.
// Whitespace-only fields are rejected; the title is stored trimmed and the
// text verbatim.
func Compose(title, text string, today time.Time) (models.Post, error) {
	draft := models.Draft{Title: title, Text: text}
	if err := validation.ValidateDraft(draft); err != nil {
		return models.Post{}, err
	}
	return models.Post{
		Title: strings.TrimSpace(title),
		Date:  models.FormatDate(today),
		Text:  text,
	}, nil
}

// Submit prepends a new post to collection. On rejection collection is
// returned unchanged with accepted == false.
func Submit(title, text string, today time.Time, collection models.Collection) (models.Collection, bool) {
	post, err := Compose(title, text, today)
	if err != nil {
		return collection, false
	}
	return collection.Prepend(post), true
}
