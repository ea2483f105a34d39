package rulecsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"physiconf/pkg/domain"
	"physiconf/pkg/registry"
)

const columnsPerRow = 8

// Decode reads headerless CSV rows back into rules, validating every
// signal and behavior against the registry under the supplied entity
// context. A nil context restricts validation to the syntactic level.
func (c *Codec) Decode(data []byte, ctx *registry.Context) ([]domain.Rule, error) {
	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}
	rules := make([]domain.Rule, 0, len(records))
	for i, record := range records {
		r, err := c.decodeRow(record, ctx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func readRecords(data []byte) ([][]string, error) {
	rd := csv.NewReader(bytes.NewReader(data))
	rd.FieldsPerRecord = columnsPerRow
	rd.TrimLeadingSpace = true
	records, err := rd.ReadAll()
	if err != nil {
		return nil, domain.ErrValidation{Reason: err.Error()}
	}
	return records, nil
}

func (c *Codec) decodeRow(record []string, ctx *registry.Context) (domain.Rule, error) {
	r := domain.Rule{
		CellType:  strings.TrimSpace(record[0]),
		Signal:    strings.TrimSpace(record[1]),
		Direction: domain.RuleDirection(strings.TrimSpace(record[2])),
		Behavior:  strings.TrimSpace(record[3]),
	}
	if r.Direction != domain.DirectionIncreases && r.Direction != domain.DirectionDecreases {
		return domain.Rule{}, domain.ErrInvalidValue{Field: "direction", Reason: fmt.Sprintf("must be %q or %q", domain.DirectionIncreases, domain.DirectionDecreases)}
	}
	var err error
	if r.SaturationValue, err = parseFloat("saturation_value", record[4]); err != nil {
		return domain.Rule{}, err
	}
	if r.HalfMax, err = parseFloat("half_max", record[5]); err != nil {
		return domain.Rule{}, err
	}
	if r.HillPower, err = parseFloat("hill_power", record[6]); err != nil {
		return domain.Rule{}, err
	}
	applyToDead, err := strconv.ParseBool(strings.TrimSpace(record[7]))
	if err != nil {
		return domain.Rule{}, domain.ErrValidation{Reason: "apply_to_dead: " + err.Error()}
	}
	r.ApplyToDead = applyToDead

	if _, err := c.signals.ResolveSignal(r.Signal, ctx); err != nil {
		return domain.Rule{}, err
	}
	if _, err := c.signals.ResolveBehavior(r.Behavior, ctx); err != nil {
		return domain.Rule{}, err
	}
	if ctx != nil && !ctx.Has(registry.ContextCellType, r.CellType) {
		return domain.Rule{}, domain.ErrMissingContext{Field: "rule", Name: r.CellType, Parameter: r.CellType, Kind: domain.KindCellType}
	}
	return r, nil
}

func parseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, domain.ErrValidation{Reason: field + ": " + err.Error()}
	}
	return v, nil
}
