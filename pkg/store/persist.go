package store

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/debug"
	"github.com/vanderheijden86/mandal/pkg/metrics"
)

// StorageKey is the fixed key the board is stored under.
const StorageKey = "mandalart-newyear-v1"

// ErrMalformed reports a stored document that is not a JSON object.
var ErrMalformed = errors.New("malformed board document")

// document is the wire shape of a stored board.
type document struct {
	Title      string                         `json:"title"`
	Goals      [board.Size]string             `json:"goals"`
	Details    [board.Size][board.Size]string `json:"details"`
	ActiveGoal int                            `json:"activeGoal"`
}

// Encode serializes the full board.
func Encode(b *board.Board) ([]byte, error) {
	doc := document{
		Title:      b.Title,
		Goals:      b.Goals,
		Details:    b.Details,
		ActiveGoal: b.ActiveGoal,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return data, nil
}

// Decode parses a stored board, coercing each field independently:
//   - title that is not a string becomes ""
//   - goals/details that are not arrays keep their defaults
//   - arrays are truncated or padded to 8 entries; non-string entries become ""
//   - a details row that is not an array becomes an empty row
//   - activeGoal must be an integral number and is clamped to [0, 7], else 0
//
// Only a document that is not a JSON object at all yields ErrMalformed.
func Decode(data []byte) (*board.Board, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: null document", ErrMalformed)
	}

	b := board.New()
	if raw, ok := top["title"]; ok {
		b.Title = decodeString(raw)
	}
	if raw, ok := top["goals"]; ok {
		if items, ok := decodeArray(raw); ok {
			b.Goals = decodeRow(items)
		}
	}
	if raw, ok := top["details"]; ok {
		if rows, ok := decodeArray(raw); ok {
			for i := 0; i < board.Size && i < len(rows); i++ {
				if items, ok := decodeArray(rows[i]); ok {
					b.Details[i] = decodeRow(items)
				}
			}
		}
	}
	if raw, ok := top["activeGoal"]; ok {
		b.ActiveGoal = decodeIndex(raw)
	}
	return b, nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// decodeArray accepts only a JSON array; null is not an array.
func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

func decodeRow(items []json.RawMessage) [board.Size]string {
	var row [board.Size]string
	for i := 0; i < board.Size && i < len(items); i++ {
		row[i] = decodeString(items[i])
	}
	return row
}

func decodeIndex(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0
	}
	switch {
	case f < 0:
		return 0
	case f > board.Size-1:
		return board.Size - 1
	default:
		return int(f)
	}
}

// Persistence loads and saves the board under StorageKey. It never holds a
// reference to the board it saves.
type Persistence struct {
	kv  KV
	key string
}

// NewPersistence wraps kv.
func NewPersistence(kv KV) *Persistence {
	return &Persistence{kv: kv, key: StorageKey}
}

// KV returns the underlying store.
func (p *Persistence) KV() KV {
	return p.kv
}

// Load returns the stored board, or defaults when nothing is stored. A
// malformed document is removed from storage and defaults are returned.
func (p *Persistence) Load() *board.Board {
	defer metrics.Timer(metrics.BoardLoad)()
	raw, ok, err := p.kv.Get(p.key)
	if err != nil {
		debug.Error("load board", err)
		return board.New()
	}
	if !ok || raw == "" {
		return board.New()
	}

	b, err := Decode([]byte(raw))
	if err != nil {
		debug.Log("discarding stored board: %v", err)
		if rmErr := p.kv.Remove(p.key); rmErr != nil {
			debug.Error("remove malformed board", rmErr)
		}
		return board.New()
	}
	return b
}

// Save writes the full board. Called after every mutation.
func (p *Persistence) Save(b *board.Board) error {
	defer metrics.Timer(metrics.BoardSave)()
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := p.kv.Set(p.key, string(data)); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	return nil
}

// Reset removes the stored board.
func (p *Persistence) Reset() error {
	if err := p.kv.Remove(p.key); err != nil {
		return fmt.Errorf("resetting board: %w", err)
	}
	return nil
}
