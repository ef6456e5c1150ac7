// Package intake reads subcontractor proposals and pulls out the company, bid total, inclusions and exclusions.
package intake

import (
	"regexp"
	"strings"

	"leveler/internal/bids"
	"leveler/internal/session"
	"leveler/internal/util"
)

type Proposal struct {
	Source      string   `json:"source"`
	Subject     string   `json:"subject,omitempty"`
	Company     string   `json:"company,omitempty"`
	Total       float64  `json:"total"`
	HasTotal    bool     `json:"hasTotal"`
	Inclusions  []string `json:"inclusions"`
	Exclusions  []string `json:"exclusions"`
	Attachments []string `json:"attachments,omitempty"`

	Detection DetectResult `json:"detection"`
}

type section int

const (
	sectionNone section = iota
	sectionInclusions
	sectionExclusions
)

var (
	reInclusionHeading = regexp.MustCompile(`(?i)^(?:scope\s+)?(?:inclusions|included|includes)\s*(?::\s*(.*))?$`)
	reExclusionHeading = regexp.MustCompile(`(?i)^(?:exclusions|excluded|excludes|not\s+included)\s*(?::\s*(.*))?$`)
	reOtherHeading     = regexp.MustCompile(`(?i)^(?:notes|qualifications|clarifications|alternates|terms(?:\s+and\s+conditions)?|payment\s+terms|schedule|sincerely|regards|best\s+regards|thank\s+you)\s*(?:[:,!.].*)?$`)
	reCompany          = regexp.MustCompile(`(?i)^(?:company|bidder|subcontractor|contractor)\s*:\s*(.+)$`)
	reAmount           = regexp.MustCompile(`(?i)^(?:our\s+|the\s+)?(base\s+bid|bid\s+total|total\s+bid|lump\s+sum|total)(?:\s+(?:amount|price))?(\s*[:=]\s*|\s+(?:of\s+|is\s+)?)(\(?-?\s*(?:usd\s*)?\$?\s*\d[\d,]*(?:\.\d{1,2})?\)?)`)
	reBullet           = regexp.MustCompile(`^(?:[-*•·▪►–]|\d{1,2}[.)])\s+`)
	reBareBullet       = regexp.MustCompile(`^[-*•·▪►–]`)
)

// amountRank orders total labels; a lower rank wins when a proposal states several.
var amountRank = map[string]int{
	"base bid":  0,
	"bid total": 1,
	"total bid": 1,
	"lump sum":  2,
	"total":     3,
}

// ParseText scans proposal text line by line. Inclusion and exclusion headings switch the current list until
// another heading appears; lines outside a list are only checked for company and total.
func ParseText(source, text string) Proposal {
	p := Proposal{Source: source, Inclusions: []string{}, Exclusions: []string{}}
	current := sectionNone
	bestRank := len(amountRank) + 1

	for _, line := range util.SplitLines(text) {
		line = util.NormalizeSpaces(line)

		if m := reExclusionHeading.FindStringSubmatch(line); m != nil {
			current = sectionExclusions
			p.add(current, m[1])
			continue
		}
		if m := reInclusionHeading.FindStringSubmatch(line); m != nil {
			current = sectionInclusions
			p.add(current, m[1])
			continue
		}
		if m := reAmount.FindStringSubmatch(line); m != nil && isMoney(m[2], m[3]) {
			label := strings.ToLower(util.NormalizeSpaces(m[1]))
			if v, ok, err := util.ParseAmount(m[3]); err == nil && ok && v >= 0 && amountRank[label] < bestRank {
				p.Total, p.HasTotal = v, true
				bestRank = amountRank[label]
			}
			continue
		}
		if m := reCompany.FindStringSubmatch(line); m != nil {
			if p.Company == "" {
				p.Company = strings.TrimSpace(m[1])
			}
			continue
		}
		if reOtherHeading.MatchString(line) {
			current = sectionNone
			continue
		}
		p.add(current, line)
	}
	return p
}

// isMoney keeps "Total of 12 fixtures" in its list: a bare number needs a colon or a currency mark.
func isMoney(separator, amount string) bool {
	if strings.ContainsAny(separator, ":=") {
		return true
	}
	lower := strings.ToLower(amount)
	return strings.Contains(lower, "$") || strings.Contains(lower, "usd")
}

func (p *Proposal) add(s section, line string) {
	line = strings.TrimSpace(reBullet.ReplaceAllString(strings.TrimSpace(line), ""))
	line = strings.TrimSpace(reBareBullet.ReplaceAllString(line, ""))
	if line == "" {
		return
	}
	switch s {
	case sectionInclusions:
		p.Inclusions = appendUnique(p.Inclusions, line)
	case sectionExclusions:
		p.Exclusions = appendUnique(p.Exclusions, line)
	}
}

// merge fills what p is missing from other and appends other's list lines.
func (p *Proposal) merge(other Proposal) {
	if p.Company == "" {
		p.Company = other.Company
	}
	if !p.HasTotal && other.HasTotal {
		p.Total, p.HasTotal = other.Total, true
	}
	for _, line := range other.Inclusions {
		p.Inclusions = appendUnique(p.Inclusions, line)
	}
	for _, line := range other.Exclusions {
		p.Exclusions = appendUnique(p.Exclusions, line)
	}
}

func appendUnique(lines []string, line string) []string {
	key := util.NormalizeLine(line)
	for _, existing := range lines {
		if util.NormalizeLine(existing) == key {
			return lines
		}
	}
	return append(lines, line)
}

// Input converts the proposal to bid book input. A missing total stays 0, leaving the slot inactive.
func (p Proposal) Input() bids.Input {
	return bids.Input{
		Company:    p.Company,
		Total:      p.Total,
		Inclusions: strings.Join(p.Inclusions, "\n"),
		Exclusions: strings.Join(p.Exclusions, "\n"),
	}
}

func (p Proposal) SheetBid() session.SheetBid {
	return session.SheetBid{
		Company:    p.Company,
		Total:      p.Total,
		Inclusions: p.Inclusions,
		Exclusions: p.Exclusions,
	}
}
