package report

import (
	"encoding/json"
	"strconv"
)

// CellKind tells a serializer how to write a cell.
type CellKind int

// Cell kinds.
const (
	KindEmpty CellKind = iota
	KindText
	KindInt
	KindScore
)

// Cell is one table value.
type Cell struct {
	Kind  CellKind
	Text  string
	Int   int
	Score float64
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Int returns an integer cell.
func Int(n int) Cell { return Cell{Kind: KindInt, Int: n} }

// Score returns a weighted-score cell, rendered with two decimals.
func Score(f float64) Cell { return Cell{Kind: KindScore, Score: f} }

// String renders the cell as it appears in a report.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindInt:
		return strconv.Itoa(c.Int)
	case KindScore:
		return FormatScore(c.Score)
	default:
		return ""
	}
}

// MarshalJSON encodes text as a string, counts as integers and scores as
// two-decimal numbers.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindText:
		return json.Marshal(c.Text)
	case KindInt:
		return []byte(strconv.Itoa(c.Int)), nil
	case KindScore:
		return []byte(FormatScore(c.Score)), nil
	default:
		return []byte("null"), nil
	}
}

// FormatScore formats a weighted score with exactly two decimals.
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
