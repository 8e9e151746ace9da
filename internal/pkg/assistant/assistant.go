package assistant

import "strings"

// Reply is one canned assistant answer with the sources it cites.
type Reply struct {
	Text      string   `json:"text"`
	Citations []string `json:"citations,omitempty"`
}

type rule struct {
	keywords []string
	reply    Reply
}

// The assistant is a keyword matcher over a fixed rule set. First rule whose
// keyword appears in the message wins.
var rules = []rule{
	{
		keywords: []string{"overtraining", "injury", "risk"},
		reply: Reply{
			Text:      "Elevated training load combined with suppressed HRV and reduced sleep is the strongest overtraining signal in the current block. Consider scheduling a recovery week and re-testing readiness in 3-4 days.",
			Citations: []string{"Training Load Guidelines (internal)", "HRV-Guided Training, Kiviniemi et al."},
		},
	},
	{
		keywords: []string{"ftp", "threshold", "power"},
		reply: Reply{
			Text:      "Functional Threshold Power is best re-tested every 6-8 weeks. A 20-minute test at 95% correction tracks well with ramp results for trained riders.",
			Citations: []string{"Power Profiling Handbook"},
		},
	},
	{
		keywords: []string{"nutrition", "carb", "fuel", "calorie"},
		reply: Reply{
			Text:      "For sessions over 90 minutes target 60-90g of carbohydrate per hour. Day-to-day intake should periodize with the training plan rather than stay constant.",
			Citations: []string{"Sports Nutrition Position Stand"},
		},
	},
	{
		keywords: []string{"sleep", "recovery", "hrv"},
		reply: Reply{
			Text:      "Nightly HRV below an athlete's 7-day baseline on consecutive days indicates incomplete recovery. Prioritize sleep consistency before adding load.",
			Citations: []string{"Recovery Monitoring Primer"},
		},
	},
}

var fallback = Reply{
	Text: "I don't have a confident answer for that yet. Try asking about training load, recovery, FTP testing or fueling strategy.",
}

// Respond returns the canned reply matching the message, or the fallback.
func Respond(message string) Reply {
	msg := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.reply
			}
		}
	}
	return fallback
}
