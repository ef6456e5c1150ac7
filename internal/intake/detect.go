package intake

import "strings"

type DetectResult struct {
	IsProposal bool    `json:"isProposal"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}

var detectKeywords = []string{"proposal", "bid", "quote", "quotation", "scope", "pricing", "lump sum"}

// Detect scores how much a parsed payload looks like a subcontractor proposal.
// A low score usually means the wrong file or a cover e-mail with the price in an unreadable attachment.
func Detect(p Proposal, body string) DetectResult {
	subject := strings.ToLower(p.Subject)
	body = strings.ToLower(body)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.15
		}
		if strings.Contains(body, kw) {
			score += 0.05
		}
	}
	if p.HasTotal {
		score += 0.4
	}
	if len(p.Inclusions) > 0 {
		score += 0.2
	}
	if len(p.Exclusions) > 0 {
		score += 0.1
	}
	if p.Company != "" {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}

	isProposal := score >= 0.45
	reason := "rules_negative"
	if isProposal {
		reason = "rules_positive"
	}
	return DetectResult{IsProposal: isProposal, Score: score, Reason: reason}
}
