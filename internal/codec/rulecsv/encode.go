// Package rulecsv implements the behavioral-rule CSV codec. The format is
// headerless with eight columns per row: cell type, signal, direction,
// behavior, saturation value, half max, hill power, apply to dead.
package rulecsv

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"physiconf/pkg/domain"
	"physiconf/pkg/registry"
)

// Codec renders rules to CSV and back, validating names against the
// signal/behavior registry.
type Codec struct {
	signals *registry.SignalBehaviorRegistry
}

// NewCodec constructs a codec over the supplied registry.
func NewCodec(signals *registry.SignalBehaviorRegistry) *Codec {
	return &Codec{signals: signals}
}

// Encode writes the rules as headerless CSV rows in input order.
func (c *Codec) Encode(rules []domain.Rule) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, r := range rules {
		record := []string{
			r.CellType,
			r.Signal,
			string(r.Direction),
			r.Behavior,
			formatFloat(r.SaturationValue),
			formatFloat(r.HalfMax),
			formatFloat(r.HillPower),
			formatBool(r.ApplyToDead),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
