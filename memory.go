package finagent

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
)

// memoryVersion tags the persisted document so new fields can be added
// without breaking older saved state. Unknown fields are ignored on
// load.
const memoryVersion = 1

// Retention caps keep memory growth and prompt size bounded over a long
// session.
const (
	maxInsights     = 20
	maxChatMessages = 40 // 20 user/assistant turns
)

// ChatMessage is one turn of the conversation history.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Insight is a short natural-language observation recorded by the
// agent. Append-only, most-recent-N retained.
type Insight struct {
	On   date.Date `json:"on"`
	Text string    `json:"text"`
}

// Memory is the agent's persisted state besides the ledger: budget
// preferences, insights and chat history. It is exclusively owned by an
// Agent; all mutation goes through Agent operations.
type Memory struct {
	goals    map[Category]decimal.Decimal
	insights []Insight
	chat     []ChatMessage
}

// NewMemory returns an empty memory.
func NewMemory() *Memory {
	return &Memory{goals: make(map[Category]decimal.Decimal)}
}

// SetGoal upserts the monthly limit for a category. Last write wins.
func (m *Memory) SetGoal(c Category, monthlyLimit decimal.Decimal) {
	m.goals[c] = monthlyLimit
}

// Goal returns the monthly limit for a category.
func (m *Memory) Goal(c Category) (decimal.Decimal, bool) {
	limit, ok := m.goals[c]
	return limit, ok
}

// Goals returns a copy of all budget goals.
func (m *Memory) Goals() map[Category]decimal.Decimal {
	out := make(map[Category]decimal.Decimal, len(m.goals))
	for c, limit := range m.goals {
		out[c] = limit
	}
	return out
}

// AddInsight appends an insight, trimming to the retention cap.
func (m *Memory) AddInsight(on date.Date, text string) {
	m.insights = append(m.insights, Insight{On: on, Text: text})
	if len(m.insights) > maxInsights {
		m.insights = m.insights[len(m.insights)-maxInsights:]
	}
}

// Insights returns up to n most recent insights, oldest first.
func (m *Memory) Insights(n int) []Insight {
	if n <= 0 || n > len(m.insights) {
		n = len(m.insights)
	}
	out := make([]Insight, n)
	copy(out, m.insights[len(m.insights)-n:])
	return out
}

// AddChat appends a conversation turn, trimming to the retention cap.
func (m *Memory) AddChat(role, content string) {
	m.chat = append(m.chat, ChatMessage{Role: role, Content: content})
	if len(m.chat) > maxChatMessages {
		m.chat = m.chat[len(m.chat)-maxChatMessages:]
	}
}

// ChatWindow returns up to n most recent messages, oldest first.
func (m *Memory) ChatWindow(n int) []ChatMessage {
	if n <= 0 || n > len(m.chat) {
		n = len(m.chat)
	}
	out := make([]ChatMessage, n)
	copy(out, m.chat[len(m.chat)-n:])
	return out
}

// memoryDoc is the open, versioned persistence format. The field layout
// mirrors the in-session aggregate: preferences, insights, history.
type memoryDoc struct {
	Version     int            `json:"version"`
	Preferences preferencesDoc `json:"preferences"`
	Insights    []Insight      `json:"agent_insights,omitempty"`
	ChatHistory []ChatMessage  `json:"chat_history,omitempty"`
}

type preferencesDoc struct {
	BudgetGoals map[string]decimal.Decimal `json:"budget_goals,omitempty"`
}

// EncodeMemory serializes the memory as a versioned JSON document.
func EncodeMemory(m *Memory) ([]byte, error) {
	doc := memoryDoc{
		Version:     memoryVersion,
		Preferences: preferencesDoc{BudgetGoals: make(map[string]decimal.Decimal, len(m.goals))},
		Insights:    m.insights,
		ChatHistory: m.chat,
	}
	for c, limit := range m.goals {
		doc.Preferences.BudgetGoals[string(c)] = limit
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not encode memory: %w", err)
	}
	return b, nil
}

// DecodeMemory parses a persisted memory document. Goal keys are
// normalized through the taxonomy; unknown document fields are ignored
// so newer writers don't break older readers.
func DecodeMemory(b []byte) (*Memory, error) {
	var doc memoryDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("could not decode memory: %w", err)
	}
	m := NewMemory()
	for label, limit := range doc.Preferences.BudgetGoals {
		c, _ := ParseCategory(label)
		m.goals[c] = limit
	}
	m.insights = doc.Insights
	if len(m.insights) > maxInsights {
		m.insights = m.insights[len(m.insights)-maxInsights:]
	}
	m.chat = doc.ChatHistory
	if len(m.chat) > maxChatMessages {
		m.chat = m.chat[len(m.chat)-maxChatMessages:]
	}
	return m, nil
}
