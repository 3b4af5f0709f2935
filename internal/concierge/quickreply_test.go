package concierge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQuickReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		wantText    string
		wantReplies []string
	}{
		{
			name:        "trailing suffix",
			text:        "Happy to help!\n[[Under $50|$50-$75|Surprise me]]",
			wantText:    "Happy to help!",
			wantReplies: []string{"Under $50", "$50-$75", "Surprise me"},
		},
		{
			name:        "no suffix",
			text:        "Just some prose.",
			wantText:    "Just some prose.",
			wantReplies: nil,
		},
		{
			name:        "whitespace after suffix",
			text:        "Picks below. [[More options|Thanks!]]  \n",
			wantText:    "Picks below.",
			wantReplies: []string{"More options", "Thanks!"},
		},
		{
			name:        "entries trimmed and empties dropped",
			text:        "Ready? [[ one | |two|]]",
			wantText:    "Ready?",
			wantReplies: []string{"one", "two"},
		},
		{
			name:        "mid-text brackets are prose",
			text:        "The [[bracketed]] bit stays because text follows it.",
			wantText:    "The [[bracketed]] bit stays because text follows it.",
			wantReplies: nil,
		},
		{
			name:        "empty text",
			text:        "",
			wantText:    "",
			wantReplies: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotText, gotReplies := SplitQuickReplies(tt.text)
			assert.Equal(t, tt.wantText, gotText)
			assert.Equal(t, tt.wantReplies, gotReplies)
		})
	}
}

func TestSplitQuickReplies_Lossless(t *testing.T) {
	t.Parallel()

	// Stripping then re-appending the suffix must reproduce the original
	// message content.
	text := "Here you go!\n[[A|B|C]]"
	prose, replies := SplitQuickReplies(text)
	assert.Equal(t, "Here you go!", prose)
	assert.Equal(t, []string{"A", "B", "C"}, replies)
}

func TestHasQuickReplies(t *testing.T) {
	t.Parallel()

	assert.True(t, HasQuickReplies("hi [[a|b]]"))
	assert.True(t, HasQuickReplies("hi [[a|b]]  "))
	assert.False(t, HasQuickReplies("hi [[a|b]] trailing prose"))
	assert.False(t, HasQuickReplies("plain text"))
}
