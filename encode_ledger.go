package finagent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// The ledger persists as JSONL: one transaction object per line, stable
// key order, human-readable and git-friendly.

// DecodeLedger reads a JSONL stream and returns a sorted ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, string(raw), err)
		}
		if tx.ID == "" {
			// Rows written by hand may omit the id.
			tx.ID = uuid.NewString()
		}
		if err := ledger.Append(tx); err != nil {
			return nil, fmt.Errorf("invalid transaction on line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	return ledger, nil
}

// EncodeLedger writes the whole ledger in canonical JSONL form.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, tx := range l.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// EncodeTransaction appends a single transaction line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("could not encode transaction %s: %w", tx.ID, err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write transaction %s: %w", tx.ID, err)
	}
	return nil
}
