package finagent

import (
	"fmt"
	"strings"
	"testing"
)

func TestMemoryGoals(t *testing.T) {
	m := NewMemory()
	m.SetGoal(Food, dec("400"))
	m.SetGoal(Food, dec("300")) // last write wins

	limit, ok := m.Goal(Food)
	if !ok || limit.String() != "300" {
		t.Errorf("goal = (%s, %v), want (300, true)", limit, ok)
	}

	// Goals returns a copy.
	m.Goals()[Food] = dec("999")
	if limit, _ := m.Goal(Food); limit.String() != "300" {
		t.Error("mutating the returned map must not touch memory")
	}
}

func TestMemoryRetentionCaps(t *testing.T) {
	m := NewMemory()
	for i := 0; i < maxInsights+10; i++ {
		m.AddInsight(mustDate("2025-04-01"), fmt.Sprintf("insight %d", i))
	}
	insights := m.Insights(0)
	if len(insights) != maxInsights {
		t.Fatalf("kept %d insights, want %d", len(insights), maxInsights)
	}
	// Oldest dropped, newest kept.
	if insights[len(insights)-1].Text != fmt.Sprintf("insight %d", maxInsights+9) {
		t.Errorf("newest = %q", insights[len(insights)-1].Text)
	}

	for i := 0; i < maxChatMessages+6; i++ {
		m.AddChat("user", fmt.Sprintf("message %d", i))
	}
	if got := len(m.ChatWindow(0)); got != maxChatMessages {
		t.Errorf("kept %d messages, want %d", got, maxChatMessages)
	}
	if got := len(m.ChatWindow(4)); got != 4 {
		t.Errorf("window = %d, want 4", got)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	m.SetGoal(Food, dec("400"))
	m.SetGoal(Transportation, dec("150"))
	m.AddInsight(mustDate("2025-04-10"), "Food spending crossed the budget.")
	m.AddChat("user", "how am I doing?")
	m.AddChat("assistant", "Fine.")

	b, err := EncodeMemory(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"version": 1`, `"budget_goals"`, `"agent_insights"`, `"chat_history"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("document missing %q:\n%s", want, b)
		}
	}

	back, err := DecodeMemory(b)
	if err != nil {
		t.Fatal(err)
	}
	if limit, _ := back.Goal(Food); limit.String() != "400" {
		t.Errorf("goal = %s, want 400", limit)
	}
	if got := back.Insights(0); len(got) != 1 || got[0].On != mustDate("2025-04-10") {
		t.Errorf("insights = %v", got)
	}
	if got := back.ChatWindow(0); len(got) != 2 || got[1].Role != "assistant" {
		t.Errorf("chat = %v", got)
	}
}

func TestDecodeMemoryNormalizesGoalKeys(t *testing.T) {
	doc := `{"version":1,"preferences":{"budget_goals":{"groceries":250,"Gadgets":50}}}`
	m, err := DecodeMemory([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if limit, ok := m.Goal(Food); !ok || limit.String() != "250" {
		t.Errorf("groceries should normalize to Food, got (%s, %v)", limit, ok)
	}
	if limit, ok := m.Goal(Other); !ok || limit.String() != "50" {
		t.Errorf("unknown key should collapse to Other, got (%s, %v)", limit, ok)
	}
}

func TestDecodeMemoryRejectsGarbage(t *testing.T) {
	if _, err := DecodeMemory([]byte("not json")); err == nil {
		t.Error("garbage should fail to decode")
	}
}
