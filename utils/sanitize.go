package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips any HTML from user supplied text such as gallery titles
// and descriptions. These fields are plain text, so the strict policy applies.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
