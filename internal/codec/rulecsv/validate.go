package rulecsv

import (
	"fmt"

	"physiconf/pkg/registry"
)

// Validate reports every problem in the rule file instead of stopping at
// the first, for tooling that wants a complete issue listing. The data is
// not decoded into rules; a non-empty result means Decode would fail.
func (c *Codec) Validate(data []byte, ctx *registry.Context) []error {
	records, err := readRecords(data)
	if err != nil {
		return []error{err}
	}
	var issues []error
	for i, record := range records {
		if _, err := c.decodeRow(record, ctx); err != nil {
			issues = append(issues, fmt.Errorf("row %d: %w", i+1, err))
		}
	}
	return issues
}
