package game

import (
	"regexp"
	"strings"
)

// mentionPattern accepts both Slack-encoded mentions (<@U123|name>) and
// plain @name tokens typed without autocomplete.
var mentionPattern = regexp.MustCompile(`<@([A-Za-z0-9]+)(?:\|([^>]+))?>|@([\p{L}\p{N}._-]+)`)

var diacriticFolder = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
	"ó", "o", "ś", "s", "ź", "z", "ż", "z",
)

// Fold lowercases text and strips Polish diacritics so guesses typed
// with or without accents compare equal.
func Fold(s string) string {
	return diacriticFolder.Replace(strings.ToLower(s))
}

// ExtractMentions returns the distinct folded handles mentioned in text,
// in order of first appearance.
func ExtractMentions(text string) []string {
	var handles []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		handle := m[2]
		if handle == "" {
			handle = m[3]
		}
		if handle == "" {
			handle = m[1]
		}
		handle = Fold(handle)
		if handle == "" || seen[handle] {
			continue
		}
		seen[handle] = true
		handles = append(handles, handle)
	}
	return handles
}

// MentionMatch reports whether answer is among the handles mentioned in
// text. Comparison is fold-insensitive and token-exact, so a mention of
// @alicea does not satisfy the answer "alice".
func MentionMatch(text, answer string) bool {
	want := Fold(answer)
	for _, h := range ExtractMentions(text) {
		if h == want {
			return true
		}
	}
	return false
}

// ContainsMatch reports whether answer occurs anywhere in text after
// folding. Used for hunt codes, which arrive pasted mid-sentence rather
// than as mentions.
func ContainsMatch(text, answer string) bool {
	return answer != "" && strings.Contains(Fold(text), Fold(answer))
}

// ExtractCodes returns a handle extractor that recognizes occurrences of
// the given codes in free text.
func ExtractCodes(codes []string) func(text string) []string {
	return func(text string) []string {
		var found []string
		for _, c := range codes {
			if ContainsMatch(text, c) {
				found = append(found, Fold(c))
			}
		}
		return found
	}
}
