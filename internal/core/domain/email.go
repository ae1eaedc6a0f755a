package domain

import "regexp"

// local-part, dotted domain, 2-7 letter TLD.
var emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)

// ValidEmail reports whether s is an acceptable account email.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
