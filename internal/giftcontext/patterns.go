package giftcontext

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// labeledPattern maps a regular expression to a display label.
// Tables are ordered: for first-match-wins slots the earlier entry takes
// priority.
type labeledPattern struct {
	re    *regexp.Regexp
	label string
}

var recipientPatterns = []labeledPattern{
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:wife|spouse)\b`), "Wife / Spouse"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:husband)\b`), "Husband"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:girlfriend|gf)\b`), "Girlfriend"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:boyfriend|bf)\b`), "Boyfriend"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:partner|significant other|SO)\b`), "Partner"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:mom|mother|mama|mum)\b`), "Mom"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:dad|father|papa)\b`), "Dad"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:grandma|grandmother|nana|granny)\b`), "Grandma"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:grandpa|grandfather|grandad|gramps)\b`), "Grandpa"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:sister|sis)\b`), "Sister"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:brother|bro)\b`), "Brother"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:daughter)\b`), "Daughter"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:son)\b`), "Son"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:boss|manager|supervisor)\b`), "Boss"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:coworker|colleague|teammate)\b`), "Coworker"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:friend|bestie|best friend|buddy|pal)\b`), "Friend"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:teacher|professor|instructor)\b`), "Teacher"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:client|customer)\b`), "Client"},
	{regexp.MustCompile(`(?i)\b(?:my |for )?(?:neighbor|neighbour)\b`), "Neighbor"},
}

// occasionPattern additionally carries the emoji used by collaborator UI.
type occasionPattern struct {
	re    *regexp.Regexp
	label string
	emoji string
}

var occasionPatterns = []occasionPattern{
	{regexp.MustCompile(`(?i)\bbirthday\b`), "Birthday", "🎂"},
	{regexp.MustCompile(`(?i)\bvalentin`), "Valentine's Day", "❤️"},
	{regexp.MustCompile(`(?i)\bmother'?s?\s*day\b`), "Mother's Day", "💐"},
	{regexp.MustCompile(`(?i)\bfather'?s?\s*day\b`), "Father's Day", "👔"},
	{regexp.MustCompile(`(?i)\bthank\s*(?:you|s)\b`), "Thank You", "🙏"},
	{regexp.MustCompile(`(?i)\banniversary`), "Anniversary", "💍"},
	{regexp.MustCompile(`(?i)\bwedding\b`), "Wedding", "💒"},
	{regexp.MustCompile(`(?i)\bgraduat`), "Graduation", "🎓"},
	{regexp.MustCompile(`(?i)\bget\s*well|recovery|healing\b`), "Get Well Soon", "🏥"},
	{regexp.MustCompile(`(?i)\bsymp(?:athy|athies)\b|condolence|sorry for (?:your|the) loss`), "Sympathy", "🕊️"},
	{regexp.MustCompile(`(?i)\b(?:congrat|congratulat)`), "Congratulations", "🎉"},
	{regexp.MustCompile(`(?i)\bchristmas|xmas|holiday\b`), "Holiday", "🎄"},
	{regexp.MustCompile(`(?i)\bcorporate|business|office|work\b`), "Corporate", "🏢"},
	{regexp.MustCompile(`(?i)\bjust\s*because|no\s*reason|thinking\s*of`), "Just Because", "💝"},
	{regexp.MustCompile(`(?i)\bnew\s*baby|baby\s*shower|newborn\b`), "New Baby", "🍼"},
	{regexp.MustCompile(`(?i)\bhousewarming|new\s*home\b`), "Housewarming", "🏠"},
	{regexp.MustCompile(`(?i)\bapology|apologize|i'?m\s*sorry\b`), "Apology", "💔"},
	{regexp.MustCompile(`(?i)\bromantic|romance|date\s*night|love\b`), "Romantic", "🌹"},
}

// budgetPattern extracts a budget range from its capture groups.
type budgetPattern struct {
	re      *regexp.Regexp
	extract func(groups []string) Budget
}

var budgetPatterns = []budgetPattern{
	{
		re:      regexp.MustCompile(`(?i)under\s*\$(\d+)`),
		extract: func(g []string) Budget { n := atoi(g[1]); return Budget{Max: &n, Raw: "Under $" + g[1]} },
	},
	{
		re:      regexp.MustCompile(`(?i)below\s*\$(\d+)`),
		extract: func(g []string) Budget { n := atoi(g[1]); return Budget{Max: &n, Raw: "Under $" + g[1]} },
	},
	{
		re:      regexp.MustCompile(`(?i)no\s*more\s*than\s*\$(\d+)`),
		extract: func(g []string) Budget { n := atoi(g[1]); return Budget{Max: &n, Raw: "Under $" + g[1]} },
	},
	{
		re:      regexp.MustCompile(`(?i)(?:at most|max(?:imum)?)\s*\$(\d+)`),
		extract: func(g []string) Budget { n := atoi(g[1]); return Budget{Max: &n, Raw: "Max $" + g[1]} },
	},
	{
		re: regexp.MustCompile(`(?i)(?:around|about|roughly|approximately)\s*\$(\d+)`),
		extract: func(g []string) Budget {
			n := atoi(g[1])
			lo := int(math.Round(float64(n) * 0.7))
			hi := int(math.Round(float64(n) * 1.3))
			return Budget{Min: &lo, Max: &hi, Raw: fmt.Sprintf("~$%d", n)}
		},
	},
	{
		re: regexp.MustCompile(`(?i)\$(\d+)\s*[-–to]+\s*\$(\d+)`),
		extract: func(g []string) Budget {
			lo, hi := atoi(g[1]), atoi(g[2])
			return Budget{Min: &lo, Max: &hi, Raw: fmt.Sprintf("$%d–$%d", lo, hi)}
		},
	},
	{
		re:      regexp.MustCompile(`(?i)(?:budget|spend|spending)\s*(?:is|of)?\s*\$(\d+)`),
		extract: func(g []string) Budget { n := atoi(g[1]); return Budget{Max: &n, Raw: "Budget: $" + g[1]} },
	},
	{
		re:      regexp.MustCompile(`(?i)(?:over|above|more than|at least|minimum)\s*\$(\d+)`),
		extract: func(g []string) Budget { n := atoi(g[1]); return Budget{Min: &n, Raw: "$" + g[1] + "+"} },
	},
	{
		re:      regexp.MustCompile(`\$(\d+)\+`),
		extract: func(g []string) Budget { n := atoi(g[1]); return Budget{Min: &n, Raw: "$" + g[1] + "+"} },
	},
}

var preferencePatterns = []labeledPattern{
	{regexp.MustCompile(`(?i)\bchocolate`), "🍫 Chocolate lover"},
	{regexp.MustCompile(`(?i)\bfruit|berry|berries|strawberr`), "🍓 Fruit forward"},
	{regexp.MustCompile(`(?i)\bcheesecake`), "🍰 Cheesecake"},
	{regexp.MustCompile(`(?i)\bcookie`), "🍪 Cookies"},
	{regexp.MustCompile(`(?i)\bbrownie`), "🍫 Brownies"},
	{regexp.MustCompile(`(?i)\bcake|cupcake`), "🎂 Cake"},
	{regexp.MustCompile(`(?i)\bpremium|luxur|upscale|fancy|deluxe`), "✨ Premium / Luxury"},
	{regexp.MustCompile(`(?i)\bsimple|small|mini|minimal`), "🎯 Simple & small"},
	{regexp.MustCompile(`(?i)\bbig|large|grand|impressive`), "🎁 Grand / Impressive"},
	{regexp.MustCompile(`(?i)\barrangement|bouquet`), "💐 Arrangement"},
	{regexp.MustCompile(`(?i)\bbasket|box`), "📦 Gift basket / box"},
	{regexp.MustCompile(`(?i)\bdipped`), "🫧 Dipped treats"},
}

var dietaryPatterns = []labeledPattern{
	{regexp.MustCompile(`(?i)\bvegan\b`), "🌱 Vegan"},
	{regexp.MustCompile(`(?i)\bnut[- ]?free|no\s*nuts|(?:allerg(?:y|ic)\s*(?:to\s*)?nuts)|peanut\s*(?:allerg|free)`), "🥜 Nut-free"},
	{regexp.MustCompile(`(?i)\bgluten[- ]?free|no\s*gluten|celiac`), "🌾 Gluten-free"},
	{regexp.MustCompile(`(?i)\bdairy[- ]?free|no\s*dairy|lactose`), "🥛 Dairy-free"},
	{regexp.MustCompile(`(?i)\bkosher\b`), "✡️ Kosher"},
	{regexp.MustCompile(`(?i)\bhalal\b`), "☪️ Halal"},
	{regexp.MustCompile(`(?i)\bhealthy|health[- ]?conscious|organic|natural\b`), "🥗 Health-conscious"},
	{regexp.MustCompile(`(?i)\bdiabet|sugar[- ]?free|low[- ]?sugar`), "💉 Sugar-conscious"},
}

var tonePatterns = []labeledPattern{
	{regexp.MustCompile(`(?i)\bromantic|sexy|sensual|intimate`), "🌹 Romantic"},
	{regexp.MustCompile(`(?i)\bprofessional|formal|corporate|business`), "🏢 Professional"},
	{regexp.MustCompile(`(?i)\bfun|playful|silly|quirky|cute`), "🎉 Fun & playful"},
	{regexp.MustCompile(`(?i)\belegant|classy|sophisticat`), "✨ Elegant"},
	{regexp.MustCompile(`(?i)\bcozy|warm|comfort`), "🧸 Cozy & warm"},
	{regexp.MustCompile(`(?i)\bthoughtful|meaningful|personal`), "💭 Thoughtful"},
}

var (
	zipPattern = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)

	// namePattern captures a capitalized word after "for", "named" or
	// "called". Case-sensitive on the capture by design.
	namePattern = regexp.MustCompile(`\b(?:(?:for|named?|called?)\s+)([A-Z][a-z]{1,15})\b`)
)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
