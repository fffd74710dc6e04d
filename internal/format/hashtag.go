package format

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// artistSeparators splits multi-artist credits on the separators upstream
// platforms use.
var artistSeparators = regexp.MustCompile(`(?i)[、/,&]|feat\.|ft\.`)

// Hashtag reduces text to a single archive hashtag, dropping whitespace and
// punctuation while keeping CJK and other letters. Returns "" when nothing
// taggable remains.
func Hashtag(text string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

// Hashtags builds the archive tag line for a delivered song: one tag for the
// title, one per credited artist, one for the album, and one for the platform
// code. Duplicate tags collapse to the first occurrence.
func Hashtags(name, artist, album, platform string) string {
	var tags []string
	seen := make(map[string]bool)
	appendTag := func(tag string) {
		if len(tag) <= 1 || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	if name != "" {
		appendTag(Hashtag(name))
	}
	if artist != "" {
		for _, credit := range artistSeparators.Split(artist, -1) {
			credit = strings.TrimSpace(credit)
			if credit != "" {
				appendTag(Hashtag(credit))
			}
		}
	}
	if album != "" {
		appendTag(Hashtag(album))
	}
	if platform != "" {
		appendTag("#" + platform)
	}
	return strings.Join(tags, " ")
}
