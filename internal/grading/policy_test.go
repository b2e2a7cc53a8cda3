package grading

import (
	"testing"

	"github.com/terra-clan/jury-engine/internal/models"
)

func TestMention(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A"},
		{90.00, "A"},
		{89.99, "B"},
		{80, "B"},
		{79.99, "C"},
		{70, "C"},
		{60, "D"},
		{50.00, "E"},
		{49.99, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := Mention(tt.pct); got != tt.want {
			t.Errorf("Mention(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestFinalDecision(t *testing.T) {
	p := DefaultPolicy()

	if got := p.FinalDecision(22.5); got != models.FinalPass {
		t.Errorf("ncv 22.5 should pass, got %s", got)
	}
	if got := p.FinalDecision(22.4); got != models.FinalRepeat {
		t.Errorf("ncv 22.4 should repeat, got %s", got)
	}
	if got := p.FinalDecision(30); got != models.FinalPass {
		t.Errorf("ncv 30 should pass, got %s", got)
	}
}

func TestPercentage(t *testing.T) {
	p := DefaultPolicy()

	if got := p.Percentage(13, 5); got != 13 {
		t.Errorf("expected 13, got %v", got)
	}
	if got := p.Percentage(13, 0); got != 0 {
		t.Errorf("zero credits should give 0, got %v", got)
	}
	// 1/3 of the semester total
	if got := p.Percentage(20, 3); got != 33.33 {
		t.Errorf("expected 33.33, got %v", got)
	}
}

func TestCustomPolicy(t *testing.T) {
	p := Policy{MaxMark: 10, ValidationThreshold: 5, PassCredits: 30}

	if got := p.UnitDecision(5); got != models.DecisionValidated {
		t.Errorf("expected V at custom threshold, got %s", got)
	}
	if got := p.FinalDecision(29); got != models.FinalRepeat {
		t.Errorf("expected Double below custom pass credits, got %s", got)
	}
	if got := p.Percentage(5, 1); got != 50 {
		t.Errorf("expected 50 with max mark 10, got %v", got)
	}
}
