package intake

import (
	"reflect"
	"testing"
)

const sampleProposal = `ACME Drywall Inc.
Company: Acme Drywall
Re: Riverside Clinic

Scope Includes:
- Metal Stud Framing
- 5/8" Type X GWB
2) Tape & Finish Level 4
• Metal stud framing

Total of 12 access panels

Exclusions:
* Painting
* Permits and fees

Base Bid: $40,000.00
Total: $41,250.00

Qualifications:
Pricing valid for 30 days
`

func TestParseText(t *testing.T) {
	p := ParseText("acme.txt", sampleProposal)

	if p.Company != "Acme Drywall" {
		t.Fatalf("company=%q", p.Company)
	}
	if !p.HasTotal || p.Total != 40000 {
		t.Fatalf("base bid should win over total, got %v (%v)", p.Total, p.HasTotal)
	}
	wantInc := []string{"Metal Stud Framing", `5/8" Type X GWB`, "Tape & Finish Level 4", "Total of 12 access panels"}
	if !reflect.DeepEqual(p.Inclusions, wantInc) {
		t.Fatalf("inclusions=%q", p.Inclusions)
	}
	wantExc := []string{"Painting", "Permits and fees"}
	if !reflect.DeepEqual(p.Exclusions, wantExc) {
		t.Fatalf("exclusions=%q", p.Exclusions)
	}
}

func TestParseTextInlineHeadings(t *testing.T) {
	p := ParseText("inline.txt", "Bidder: Volt Electric\nIncluded: Fire Alarm\nNot Included: Low Voltage\nLump Sum $55,000\n")
	if p.Company != "Volt Electric" {
		t.Fatalf("company=%q", p.Company)
	}
	if p.Total != 55000 {
		t.Fatalf("total=%v", p.Total)
	}
	if len(p.Inclusions) != 1 || p.Inclusions[0] != "Fire Alarm" {
		t.Fatalf("inclusions=%q", p.Inclusions)
	}
	if len(p.Exclusions) != 1 || p.Exclusions[0] != "Low Voltage" {
		t.Fatalf("exclusions=%q", p.Exclusions)
	}
}

func TestParseTextWithoutTotal(t *testing.T) {
	p := ParseText("draft.txt", "Inclusions\nErosion control\n")
	if p.HasTotal || p.Total != 0 {
		t.Fatalf("expected no total, got %v", p.Total)
	}
	in := p.Input()
	if in.Total != 0 || in.Inclusions != "Erosion control" {
		t.Fatalf("input=%+v", in)
	}
}

func TestParseTextIgnoresNegativeTotal(t *testing.T) {
	p := ParseText("credit.txt", "Total: (1,500.00)\n")
	if p.HasTotal {
		t.Fatalf("negative total accepted: %v", p.Total)
	}
}
