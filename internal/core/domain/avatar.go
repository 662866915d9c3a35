package domain

import (
	"strings"
	"unicode/utf8"
)

// PlaceholderAvatarBase is the prefix of every generated avatar URL.
const PlaceholderAvatarBase = "https://ui-avatars.com/api/"

// PlaceholderAvatar builds the initials avatar for a first/last name pair,
// e.g. "Mattia", "Consiglio" -> https://ui-avatars.com/api/?name=M+C.
func PlaceholderAvatar(firstName, lastName string) string {
	return PlaceholderAvatarBase + "?name=" + initial(firstName) + "+" + initial(lastName)
}

// IsPlaceholderAvatar reports whether url was generated by PlaceholderAvatar
// rather than uploaded by the user.
func IsPlaceholderAvatar(url string) bool {
	return strings.HasPrefix(url, PlaceholderAvatarBase)
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r)
}
