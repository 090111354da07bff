package finagent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nroux/finagent/date"
	"github.com/nroux/finagent/store"
)

// defaultAnalysisTimeout bounds a single plan execution. A runaway
// filter expression is cancelled, reported as a failure and never
// retried automatically.
const defaultAnalysisTimeout = 10 * time.Second

// chatWindow is the number of history messages embedded in a chat
// prompt.
const chatWindow = 10

// Agent is the single owner of a ledger and its memory. All mutation
// goes through its operations; a mutex serializes mutations so the pair
// never exposes a partial write, even when embedded in a concurrent
// host. Collaborators (model, store) are injected, never global.
type Agent struct {
	mu     sync.Mutex
	ledger *Ledger
	memory *Memory

	categorizer *Categorizer
	gen         Generator
	store       store.Store
	session     string

	anomaly         AnomalyConfig
	analysisTimeout time.Duration
	now             func() date.Date
	log             zerolog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithGenerator injects the language model. Without it every
// model-backed path degrades deterministically.
func WithGenerator(g Generator) Option { return func(a *Agent) { a.gen = g } }

// WithStore injects durable memory storage for the given session key.
func WithStore(s store.Store, session string) Option {
	return func(a *Agent) { a.store, a.session = s, session }
}

// WithLedger starts the agent from an existing ledger.
func WithLedger(l *Ledger) Option { return func(a *Agent) { a.ledger = l } }

// WithAnomalyConfig overrides the anomaly tuning.
func WithAnomalyConfig(cfg AnomalyConfig) Option { return func(a *Agent) { a.anomaly = cfg } }

// WithAnalysisTimeout overrides the plan execution bound.
func WithAnalysisTimeout(d time.Duration) Option { return func(a *Agent) { a.analysisTimeout = d } }

// WithClock overrides "today" for deterministic tests of current-month
// computations.
func WithClock(now func() date.Date) Option { return func(a *Agent) { a.now = now } }

// WithLogger injects the structured logger.
func WithLogger(log zerolog.Logger) Option { return func(a *Agent) { a.log = log } }

// New constructs an agent. If a store is configured, prior memory for
// the session is loaded; a missing document starts fresh, a corrupt one
// is a PersistenceError.
func New(opts ...Option) (*Agent, error) {
	a := &Agent{
		ledger:          NewLedger(),
		memory:          NewMemory(),
		anomaly:         DefaultAnomalyConfig(),
		analysisTimeout: defaultAnalysisTimeout,
		now:             date.Today,
		log:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.categorizer = NewCategorizer(a.gen, a.log)

	if a.store != nil {
		doc, found, err := a.store.Load(a.session)
		if err != nil {
			return nil, &PersistenceError{Op: "load", Err: err}
		}
		if found {
			m, err := DecodeMemory(doc)
			if err != nil {
				return nil, &PersistenceError{Op: "load", Err: err}
			}
			a.memory = m
		}
	}
	return a, nil
}

// flushMemory persists memory after a mutation. The in-memory state is
// already applied; a failed save degrades to session-only memory and is
// reported as a PersistenceError.
func (a *Agent) flushMemory() error {
	if a.store == nil {
		return nil
	}
	doc, err := EncodeMemory(a.memory)
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := a.store.Save(a.session, doc); err != nil {
		a.log.Warn().Err(err).Msg("memory save failed, continuing with session-only memory")
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// AddTransaction validates, categorizes and appends one transaction,
// returning the stored row so callers can surface the assigned category
// (and persist the row) without a second lookup.
func (a *Agent) AddTransaction(ctx context.Context, day date.Date, amount decimal.Decimal, description string) (Transaction, error) {
	if amount.IsZero() {
		return Transaction{}, validationf("amount", "must be non-zero")
	}
	if day.IsZero() {
		return Transaction{}, validationf("date", "is missing")
	}

	// Categorization may hit the network; keep it outside the lock.
	category, method := a.categorizer.Categorize(ctx, description, amount)

	a.mu.Lock()
	defer a.mu.Unlock()
	tx := NewTransaction(day, amount, description, category)
	if err := a.ledger.Append(tx); err != nil {
		return Transaction{}, err
	}
	a.log.Info().Str("id", tx.ID).Str("category", string(category)).
		Str("method", string(method)).Msg("transaction added")

	// A goal crossed by this row is worth remembering.
	if err := a.noteBudgetCrossing(tx); err != nil {
		return tx, err
	}
	return tx, nil
}

// noteBudgetCrossing records an insight when a freshly added expense
// pushes its category over the monthly goal. Caller holds the lock.
func (a *Agent) noteBudgetCrossing(tx Transaction) error {
	if !tx.IsExpense() {
		return nil
	}
	limit, ok := a.memory.Goal(tx.Category)
	if !ok || limit.IsZero() {
		return nil
	}
	month := date.MonthOf(tx.Date)
	spent := a.ledger.CategoryTotals(month)[tx.Category]
	if spent.LessThanOrEqual(limit) || spent.Sub(tx.Abs()).GreaterThan(limit) {
		return nil
	}
	a.memory.AddInsight(a.now(), fmt.Sprintf("%s %d: %s spending crossed the %s budget (%s spent).",
		tx.Date.Month(), tx.Date.Year(), tx.Category, FormatAmount(limit), FormatAmount(spent)))
	return a.flushMemory()
}

// ImportRow is one record at the bulk import boundary. Fields arrive as
// strings; parsing failures are reported per row.
type ImportRow struct {
	Date        string
	Amount      string
	Description string
}

// ImportResult reports the outcome for one imported row.
type ImportResult struct {
	Row         int // 1-based position in the input
	Transaction Transaction
	Err         error
}

// BulkImport inserts each row independently: a malformed row is
// reported and skipped, the remaining rows still insert. Never
// all-or-nothing.
func (a *Agent) BulkImport(ctx context.Context, rows []ImportRow) []ImportResult {
	results := make([]ImportResult, 0, len(rows))
	for i, row := range rows {
		res := ImportResult{Row: i + 1}
		day, err := date.Parse(strings.TrimSpace(row.Date))
		if err != nil {
			res.Err = validationf("date", "row %d: %v", i+1, err)
			results = append(results, res)
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
		if err != nil {
			res.Err = validationf("amount", "row %d: not a number: %q", i+1, row.Amount)
			results = append(results, res)
			continue
		}
		tx, err := a.AddTransaction(ctx, day, amount, row.Description)
		res.Transaction, res.Err = tx, err
		results = append(results, res)
	}
	return results
}

// Snapshot returns a read-only copy of the ledger rows.
func (a *Agent) Snapshot() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Snapshot()
}

// Filter returns the rows matching category and range.
func (a *Agent) Filter(c Category, r date.Range) []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Filter(c, r)
}

// Totals returns income, expenses and net over the range.
func (a *Agent) Totals(r date.Range) (income, expenses, net decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Totals(r)
}

// Recategorize corrects the category of a stored transaction.
func (a *Agent) Recategorize(id string, c Category) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Recategorize(id, c)
}

// SetBudgetGoal upserts a monthly limit. Idempotent; persisted on every
// call.
func (a *Agent) SetBudgetGoal(c Category, monthlyLimit decimal.Decimal) error {
	if !c.IsValid() {
		return validationf("category", "%q is not in the taxonomy", c)
	}
	if monthlyLimit.IsNegative() {
		return validationf("monthly_limit", "must be non-negative, got %s", monthlyLimit)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.SetGoal(c, monthlyLimit)
	return a.flushMemory()
}

// BudgetProgress reports the current calendar month against all goals.
// Rows and narrative are deterministic.
func (a *Agent) BudgetProgress() ([]BudgetRow, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	today := a.now()
	rows := ComputeBudgetProgress(a.ledger, a.memory.Goals(), date.MonthOf(today))
	return rows, BudgetNarrative(today, rows)
}

// CreateSavingPlan computes the exact required monthly contribution and
// wraps it in advisory prose. The figure is embedded verbatim; when the
// model is unavailable the plan text is fully deterministic.
func (a *Agent) CreateSavingPlan(ctx context.Context, goal decimal.Decimal, months int) (string, error) {
	contribution, err := RequiredContribution(goal, months)
	if err != nil {
		return "", err
	}
	figure := "$" + contribution.StringFixed(2)

	a.mu.Lock()
	discretionary := discretionarySpend(a.ledger, a.now(), 3)
	a.mu.Unlock()

	fallback := fmt.Sprintf(
		"To reach %s in %d months, set aside exactly %s per month. Your average monthly discretionary spend is %s; trimming it is the most direct way to fund the contribution.",
		FormatAmount(goal), months, figure, discretionary)

	if a.gen == nil {
		return fallback, nil
	}
	reply, err := a.gen.Generate(ctx, savingPlanPrompt(goal, months, figure, discretionary))
	if err != nil {
		a.log.Warn().Err(err).Msg("saving plan prose unavailable, using deterministic plan")
		return fallback, nil
	}
	if !strings.Contains(reply, figure) {
		// The model dropped or rewrote the required figure; the
		// deterministic plan is the safer answer.
		return fallback, nil
	}
	return reply, nil
}

// BudgetRecommendation asks the model for per-category limits over
// aggregate spend only.
func (a *Agent) BudgetRecommendation(ctx context.Context) (string, error) {
	a.mu.Lock()
	summary := SummarizeLedger(a.ledger, a.now())
	goals := a.memory.Goals()
	a.mu.Unlock()

	if a.gen == nil {
		return unavailableMessage, &ExternalServiceError{Op: "recommendation", Err: errNoGenerator}
	}
	reply, err := a.gen.Generate(ctx, recommendationPrompt(summary, goals))
	if err != nil {
		return unavailableMessage, &ExternalServiceError{Op: "recommendation", Err: err}
	}
	return reply, nil
}

// DetectUnusual runs the statistical anomaly pass as of today. Flagged
// rows feed an insight; an empty result is a normal outcome.
func (a *Agent) DetectUnusual() ([]Anomaly, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	flagged := DetectAnomalies(a.ledger, a.now(), a.anomaly)
	narrative := AnomalyNarrative(flagged)
	if len(flagged) > 0 {
		a.memory.AddInsight(a.now(), fmt.Sprintf("Flagged %d unusual transaction(s) on %s.", len(flagged), a.now()))
		if err := a.flushMemory(); err != nil {
			a.log.Warn().Err(err).Msg("could not persist anomaly insight")
		}
	}
	return flagged, narrative
}

// Analyze answers a natural-language question about the ledger. It is
// strictly read-only: no ledger or memory mutation, success or failure.
// The returned Analysis always carries the raw plan for audit.
func (a *Agent) Analyze(ctx context.Context, question string) (Analysis, error) {
	a.mu.Lock()
	snapshot := a.ledger.Snapshot()
	today := a.now()
	a.mu.Unlock()

	if a.gen == nil {
		return Analysis{Text: unavailableMessage}, &ExternalServiceError{Op: "analyze", Err: errNoGenerator}
	}
	reply, err := a.generatePlan(ctx, analysisPrompt(question, today))
	if err != nil {
		return Analysis{Text: unavailableMessage}, &ExternalServiceError{Op: "analyze", Err: err}
	}

	plan, err := ParsePlan(reply)
	if err != nil {
		return Analysis{Text: "That question could not be turned into a valid analysis.", Plan: reply}, err
	}
	raw := stripFences(reply)

	rows, err := a.executeBounded(ctx, snapshot, plan)
	if err != nil {
		return Analysis{Text: "The analysis could not be completed.", Plan: raw}, err
	}
	return Analysis{
		Text:  SummarizeRows(plan, rows),
		Table: rows,
		Chart: plan.Chart,
		Plan:  raw,
	}, nil
}

// generatePlan requests a plan, asking for a JSON-constrained response
// when the generator supports it.
func (a *Agent) generatePlan(ctx context.Context, prompt string) (string, error) {
	if jg, ok := a.gen.(JSONGenerator); ok {
		return jg.GenerateJSON(ctx, prompt)
	}
	return a.gen.Generate(ctx, prompt)
}

// executeBounded runs the plan on a worker with a hard wall-clock
// bound, so a pathological plan cannot block the agent.
func (a *Agent) executeBounded(ctx context.Context, snapshot []Transaction, plan Plan) ([]AnalysisRow, error) {
	ctx, cancel := context.WithTimeout(ctx, a.analysisTimeout)
	defer cancel()

	type outcome struct {
		rows []AnalysisRow
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		rows, err := ExecutePlan(ctx, snapshot, plan)
		done <- outcome{rows, err}
	}()

	select {
	case o := <-done:
		return o.rows, o.err
	case <-ctx.Done():
		return nil, &PlanError{Reason: "analysis timed out", Err: ctx.Err()}
	}
}

// Chat appends the user turn, answers from a bounded history window
// plus the ledger summary, records the reply and returns it. A failed
// round trip still records the exchange with an unavailability notice.
func (a *Agent) Chat(ctx context.Context, message string) (string, error) {
	a.mu.Lock()
	history := a.memory.ChatWindow(chatWindow)
	summary := SummarizeLedger(a.ledger, a.now())
	a.mu.Unlock()

	reply := unavailableMessage
	var genErr error
	if a.gen == nil {
		genErr = &ExternalServiceError{Op: "chat", Err: errNoGenerator}
	} else if out, err := a.gen.Generate(ctx, chatPrompt(history, summary, message)); err != nil {
		genErr = &ExternalServiceError{Op: "chat", Err: err}
	} else {
		reply = out
	}

	// History append and flush form the write half of the logical
	// transaction around the model round trip.
	a.mu.Lock()
	a.memory.AddChat("user", message)
	a.memory.AddChat("assistant", reply)
	flushErr := a.flushMemory()
	a.mu.Unlock()

	if genErr != nil {
		return reply, genErr
	}
	return reply, flushErr
}

// Advice produces one-shot advisory text on a topic.
func (a *Agent) Advice(ctx context.Context, topic string) (string, error) {
	a.mu.Lock()
	summary := SummarizeLedger(a.ledger, a.now())
	insights := a.memory.Insights(5)
	a.mu.Unlock()

	if a.gen == nil {
		return unavailableMessage, &ExternalServiceError{Op: "advice", Err: errNoGenerator}
	}
	reply, err := a.gen.Generate(ctx, advicePrompt(topic, summary, insights))
	if err != nil {
		return unavailableMessage, &ExternalServiceError{Op: "advice", Err: err}
	}
	return reply, nil
}

// HealthCheck produces a comprehensive model-written review over
// aggregates and budget status.
func (a *Agent) HealthCheck(ctx context.Context) (string, error) {
	a.mu.Lock()
	summary := SummarizeLedger(a.ledger, a.now())
	rows := ComputeBudgetProgress(a.ledger, a.memory.Goals(), date.MonthOf(a.now()))
	progress := BudgetNarrative(a.now(), rows)
	a.mu.Unlock()

	if a.gen == nil {
		return unavailableMessage, &ExternalServiceError{Op: "health-check", Err: errNoGenerator}
	}
	reply, err := a.gen.Generate(ctx, healthCheckPrompt(summary, progress))
	if err != nil {
		return unavailableMessage, &ExternalServiceError{Op: "health-check", Err: err}
	}
	return reply, nil
}

// Insights returns up to n recent insights.
func (a *Agent) Insights(n int) []Insight {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.Insights(n)
}

// ChatHistory returns up to n recent chat messages.
func (a *Agent) ChatHistory(n int) []ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.ChatWindow(n)
}

// Goals returns a copy of the budget goals.
func (a *Agent) Goals() map[Category]decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.Goals()
}

var errNoGenerator = fmt.Errorf("no model configured")

// SeedDemoData inserts a small demonstration dataset.
func (a *Agent) SeedDemoData(ctx context.Context) ([]Transaction, error) {
	demo := []struct {
		day         string
		amount      string
		description string
	}{
		{"2025-04-01", "-52.50", "Grocery shopping at Whole Foods"},
		{"2025-04-02", "-125.30", "Uber rides for the week"},
		{"2025-04-03", "2500", "Monthly salary deposit"},
		{"2025-04-04", "-85.20", "Dinner with friends at Italian restaurant"},
		{"2025-04-05", "-45.99", "Netflix and Spotify subscriptions"},
		{"2025-04-06", "-320.50", "New smartphone case and accessories"},
		{"2025-04-07", "-960", "Monthly rent payment"},
		{"2025-04-08", "-120.30", "Electricity and water bill"},
	}
	out := make([]Transaction, 0, len(demo))
	for _, d := range demo {
		tx, err := a.AddTransaction(ctx, date.MustParse(d.day), decimal.RequireFromString(d.amount), d.description)
		if err != nil {
			return out, err
		}
		out = append(out, tx)
	}
	return out, nil
}
