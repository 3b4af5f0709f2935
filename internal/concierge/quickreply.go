package concierge

import (
	"regexp"
	"strings"
)

// Assistant text may end with a single trailing pipe-delimited suggestion
// list, e.g. "Happy to help! [[Under $50|$50-$75|Surprise me]]". The suffix
// is structural metadata, not prose, and must strip losslessly.
var quickReplyPattern = regexp.MustCompile(`\[\[(.+?)\]\]\s*$`)

// SplitQuickReplies separates the trailing suggestion suffix from assistant
// text. It returns the prose with the suffix removed and the parsed options.
// Entries are trimmed and empty entries discarded. Text without a trailing
// suffix is returned unchanged with nil options.
func SplitQuickReplies(text string) (string, []string) {
	m := quickReplyPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return text, nil
	}

	var replies []string
	for _, opt := range strings.Split(text[m[2]:m[3]], "|") {
		if opt = strings.TrimSpace(opt); opt != "" {
			replies = append(replies, opt)
		}
	}

	return strings.TrimRight(text[:m[0]], " \n\t"), replies
}

// HasQuickReplies reports whether text ends with a suggestion suffix.
func HasQuickReplies(text string) bool {
	return quickReplyPattern.MatchString(text)
}
