// Package threadref pulls a thread timestamp out of slash-command
// text. Operators paste a message archive link as the first word of a
// command to direct the reply into that message's thread.
package threadref

import (
	"net/url"
	"regexp"
	"strings"
)

const platformDomain = "slack.com"

var messageSegment = regexp.MustCompile(`^p(\d{16})$`)

// Extract looks at the first whitespace-separated token of text. If
// it is an archive URL on the platform domain carrying a p<16 digits>
// message segment, Extract returns the text without that token and
// the timestamp in canonical <seconds>.<fraction> form. Anything
// malformed leaves the text untouched and returns an empty timestamp;
// there is no error path.
func Extract(text string) (remaining string, threadTS string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text, ""
	}
	first := trimmed
	rest := ""
	if i := strings.IndexFunc(trimmed, isSpace); i >= 0 {
		first = trimmed[:i]
		rest = strings.TrimSpace(trimmed[i:])
	}

	parsed, err := url.Parse(first)
	if err != nil || parsed.Host == "" {
		return text, ""
	}
	host := strings.ToLower(parsed.Hostname())
	if host != platformDomain && !strings.HasSuffix(host, "."+platformDomain) {
		return text, ""
	}

	for _, segment := range strings.Split(parsed.Path, "/") {
		m := messageSegment.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		digits := m[1]
		return rest, digits[:10] + "." + digits[10:]
	}
	return text, ""
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
