// Package giftcontext derives structured gifting context from the user's
// side of the conversation using deterministic pattern tables.
//
// Extract is a pure function: identical input always yields a structurally
// identical Context, so collaborator UI can recompute it on every render.
// Matching precedence differs by slot: recipient, occasion and tone take the
// first match across the combined text; budget is evaluated per message in
// chronological order and every match overwrites the previous one, so the
// most recently stated budget wins.
package giftcontext

import "strings"

// Budget is a detected budget range. Nil Min or Max means unbounded on that
// side. Raw preserves a display form of the phrase that produced the range.
type Budget struct {
	Min *int   `json:"min,omitempty"`
	Max *int   `json:"max,omitempty"`
	Raw string `json:"raw"`
}

// Context is the structured gifting context for one conversation.
type Context struct {
	Recipient     string   `json:"recipient,omitempty"`
	RecipientName string   `json:"recipientName,omitempty"`
	Occasion      string   `json:"occasion,omitempty"`
	Budget        *Budget  `json:"budget,omitempty"`
	Preferences   []string `json:"preferences"`
	DietaryNeeds  []string `json:"dietaryNeeds"`
	DeliveryZip   string   `json:"deliveryZip,omitempty"`
	Tone          string   `json:"tone,omitempty"`
}

// Extract builds a Context from the ordered list of user-authored turns.
func Extract(userMessages []string) Context {
	ctx := Context{
		Preferences:  []string{},
		DietaryNeeds: []string{},
	}

	allText := strings.Join(userMessages, " ")

	for _, p := range recipientPatterns {
		if p.re.MatchString(allText) {
			ctx.Recipient = p.label
			break
		}
	}

	if m := namePattern.FindStringSubmatch(allText); m != nil {
		ctx.RecipientName = m[1]
	}

	for _, p := range occasionPatterns {
		if p.re.MatchString(allText) {
			ctx.Occasion = p.label
			break
		}
	}

	// Budget is evaluated per message in chronological order and every
	// match overwrites, so the most recently stated budget wins.
	for _, msg := range userMessages {
		for _, p := range budgetPatterns {
			if m := p.re.FindStringSubmatch(msg); m != nil {
				b := p.extract(m)
				ctx.Budget = &b
			}
		}
	}

	for _, p := range preferencePatterns {
		if p.re.MatchString(allText) {
			ctx.Preferences = append(ctx.Preferences, p.label)
		}
	}

	for _, p := range dietaryPatterns {
		if p.re.MatchString(allText) {
			ctx.DietaryNeeds = append(ctx.DietaryNeeds, p.label)
		}
	}

	if m := zipPattern.FindStringSubmatch(allText); m != nil {
		ctx.DeliveryZip = m[1]
	}

	for _, p := range tonePatterns {
		if p.re.MatchString(allText) {
			ctx.Tone = p.label
			break
		}
	}

	return ctx
}

// Completeness scores how filled-in the context is, as a percentage of five
// weighted slots: recipient, occasion, budget, any preference, and tone or
// any dietary need.
func Completeness(ctx Context) int {
	filled := 0
	const total = 5

	if ctx.Recipient != "" {
		filled++
	}
	if ctx.Occasion != "" {
		filled++
	}
	if ctx.Budget != nil {
		filled++
	}
	if len(ctx.Preferences) > 0 {
		filled++
	}
	if ctx.Tone != "" || len(ctx.DietaryNeeds) > 0 {
		filled++
	}

	return int(float64(filled)/float64(total)*100 + 0.5)
}

// OccasionEmoji returns the emoji for a detected occasion label, or the
// generic gift emoji for unknown labels.
func OccasionEmoji(occasion string) string {
	for _, p := range occasionPatterns {
		if p.label == occasion {
			return p.emoji
		}
	}
	return "🎁"
}
