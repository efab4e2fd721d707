package agent_test

import (
	"strings"
	"testing"

	"github.com/odiadev/odia-backend/internal/agent"
)

func TestSelect_SingleKeyword(t *testing.T) {
	cases := []struct {
		message string
		want    agent.ID
	}{
		{"I need WhatsApp automation for my business", agent.Lexi},
		{"how do I apply for university admission?", agent.Miss},
		{"book me a luxury hotel in Lagos", agent.Atlas},
		{"is my privacy policy NDPR compliant?", agent.Legal},
	}

	for _, tc := range cases {
		if got := agent.Select(tc.message); got != tc.want {
			t.Errorf("Select(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestSelect_NoMatchReturnsDefault(t *testing.T) {
	for _, msg := range []string{"", "hello there", "good morning o"} {
		if got := agent.Select(msg); got != agent.Default {
			t.Errorf("Select(%q) = %q, want default %q", msg, got, agent.Default)
		}
	}
}

func TestSelect_CaseInsensitive(t *testing.T) {
	if got := agent.Select("LUXURY TRAVEL PLEASE"); got != agent.Atlas {
		t.Errorf("Select() = %q, want %q", got, agent.Atlas)
	}
}

func TestSelect_SubstringMatch(t *testing.T) {
	// Matching is deliberately substring, not word-boundary.
	if got := agent.Select("preschooling options"); got != agent.Miss {
		t.Errorf("Select() = %q, want %q (substring 'school')", got, agent.Miss)
	}
}

func TestSelect_PriorityOrderWins(t *testing.T) {
	// "student" (MISS) appears before "travel" (Atlas) in registry order,
	// regardless of word order in the message.
	msgs := []string{
		"student travel discounts",
		"travel options for a student",
	}
	for _, msg := range msgs {
		if got := agent.Select(msg); got != agent.Miss {
			t.Errorf("Select(%q) = %q, want %q (registry priority)", msg, got, agent.Miss)
		}
	}
}

func TestAll_DeclaredOrder(t *testing.T) {
	want := []agent.ID{agent.Lexi, agent.Miss, agent.Atlas, agent.Legal}
	defs := agent.All()
	if len(defs) != len(want) {
		t.Fatalf("All() returned %d personas, want %d", len(defs), len(want))
	}
	for i, def := range defs {
		if def.ID != want[i] {
			t.Errorf("All()[%d].ID = %q, want %q", i, def.ID, want[i])
		}
	}
}

func TestGet(t *testing.T) {
	def, ok := agent.Get(agent.Atlas)
	if !ok {
		t.Fatal("Get(Atlas) not found")
	}
	if def.MonthlyPrice != 25000 {
		t.Errorf("Get(Atlas).MonthlyPrice = %d, want 25000", def.MonthlyPrice)
	}

	if _, ok := agent.Get(agent.ID("NOPE")); ok {
		t.Error("Get() for unknown ID should report not found")
	}
}

func TestPrompt_ContainsCommonAndRoleBlocks(t *testing.T) {
	cases := []struct {
		id      agent.ID
		pricing string
	}{
		{agent.Lexi, "₦15,000/month"},
		{agent.Atlas, "₦25,000/month"},
		{agent.Legal, "₦20,000/month"},
	}

	for _, tc := range cases {
		p := agent.Prompt(tc.id)
		if !strings.Contains(p, "ODIA.dev Nigerian voice AI agent") {
			t.Errorf("Prompt(%q) missing common preamble", tc.id)
		}
		if !strings.Contains(p, tc.pricing) {
			t.Errorf("Prompt(%q) missing pricing line %q", tc.id, tc.pricing)
		}
	}
}

func TestPrompt_UnknownIDGetsCommonBlock(t *testing.T) {
	p := agent.Prompt(agent.ID("NOPE"))
	if !strings.Contains(p, "ODIA.dev Nigerian voice AI agent") {
		t.Error("Prompt() for unknown ID should return the common block")
	}
	if strings.Contains(p, "Role:") {
		t.Error("Prompt() for unknown ID should not contain a role block")
	}
}
