package finagent

import (
	"fmt"
	"math"
	"strings"

	"github.com/nroux/finagent/date"
)

// AnomalyConfig tunes the statistical pass. The defaults are
// deliberately configuration, not fixed behavior.
type AnomalyConfig struct {
	Sigma      float64 // deviations above the mean before a row is flagged
	MinSamples int     // minimum rows in a leave-one-out baseline
	WindowDays int     // trailing window used as the baseline
}

// DefaultAnomalyConfig returns the standard tuning.
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{Sigma: 2.0, MinSamples: 3, WindowDays: 90}
}

// Anomaly is one flagged row with its baseline figures.
type Anomaly struct {
	Transaction Transaction
	Mean        float64 // baseline mean of |amount| in the category
	StdDev      float64
	Threshold   float64 // mean + sigma*stddev
}

// DetectAnomalies flags transactions whose absolute amount deviates
// from the category's trailing-window distribution, each row measured
// against a baseline that excludes the row itself. Categories with too
// little history are skipped: insufficient data never produces a false
// anomaly. An empty result is "no anomalies", not an error.
//
// The pass is fully deterministic and needs no network access.
func DetectAnomalies(l *Ledger, asOf date.Date, cfg AnomalyConfig) []Anomaly {
	window := date.TrailingDays(asOf, cfg.WindowDays)
	byCategory := make(map[Category][]Transaction)
	for _, tx := range l.Transactions(InRange(window)) {
		byCategory[tx.Category] = append(byCategory[tx.Category], tx)
	}

	var flagged []Anomaly
	for _, c := range Categories() {
		rows := byCategory[c]
		// Each row is measured against the other rows, so the
		// baseline itself must hold MinSamples entries. A two-point
		// baseline would flag ordinary spend.
		if len(rows) <= cfg.MinSamples {
			continue
		}
		for i, tx := range rows {
			mean, std := baseline(rows, i)
			threshold := mean + cfg.Sigma*std
			if amount := tx.Abs().InexactFloat64(); amount > threshold {
				flagged = append(flagged, Anomaly{
					Transaction: tx,
					Mean:        mean,
					StdDev:      std,
					Threshold:   threshold,
				})
			}
		}
	}
	return flagged
}

// baseline computes mean and population standard deviation of |amount|
// over rows, leaving out index skip.
func baseline(rows []Transaction, skip int) (mean, std float64) {
	n := 0
	for i, tx := range rows {
		if i == skip {
			continue
		}
		mean += tx.Abs().InexactFloat64()
		n++
	}
	if n == 0 {
		return 0, 0
	}
	mean /= float64(n)
	for i, tx := range rows {
		if i == skip {
			continue
		}
		d := tx.Abs().InexactFloat64() - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(n))
	return mean, std
}

// AnomalyNarrative renders the deterministic explanation for flagged
// rows, independent of the model.
func AnomalyNarrative(flagged []Anomaly) string {
	if len(flagged) == 0 {
		return "No unusual transactions detected."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d unusual transaction(s):\n", len(flagged))
	for _, a := range flagged {
		tx := a.Transaction
		fmt.Fprintf(&b, "- %s %s %q: %s is well above the typical %s spend of %s\n",
			tx.Date, tx.Category, tx.Description,
			FormatAmount(tx.Abs()), tx.Category, formatFloat(a.Mean))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatFloat(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
