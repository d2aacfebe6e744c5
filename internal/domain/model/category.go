package model

import "strings"

// Category is one of the fixed discovery categories.
type Category string

// Supported categories.
const (
	CategoryGaming       Category = "Gaming"
	CategoryArt          Category = "Art"
	CategoryMusic        Category = "Music"
	CategoryJustChatting Category = "Just Chatting"
	CategoryCoding       Category = "Coding"
	CategoryRetro        Category = "Retro"
)

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryGaming,
		CategoryArt,
		CategoryMusic,
		CategoryJustChatting,
		CategoryCoding,
		CategoryRetro,
	}
}

// ParseCategory matches s against the closed set, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}
