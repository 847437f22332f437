package parser

import "strings"

// ColumnResolver maps a source's raw column names onto canonical field slots.
// Pure and deterministic: the same column list always yields the same mapping.
type ColumnResolver struct {
	candidates []FieldCandidates
}

// NewColumnResolver builds a resolver from ordered candidate lists. Candidates
// are normalized here once so that accented configuration literals compare
// equal to folded headers.
func NewColumnResolver(candidates []FieldCandidates) *ColumnResolver {
	normalized := make([]FieldCandidates, 0, len(candidates))
	for _, fc := range candidates {
		cands := make([]string, 0, len(fc.Candidates))
		for _, c := range fc.Candidates {
			cands = append(cands, NormalizeColumnName(c))
		}
		normalized = append(normalized, FieldCandidates{Field: fc.Field, Candidates: cands})
	}
	return &ColumnResolver{candidates: normalized}
}

// Resolve binds each canonical field to a raw column. For each field the
// candidate list is tried in order; the first candidate that is a substring of
// any normalized column name wins, scanning columns in their original order.
// Fields with no match are left out of the mapping — not an error, it only
// disables the metrics depending on them for that source.
func (r *ColumnResolver) Resolve(columns []string) ColumnMapping {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = NormalizeColumnName(col)
	}

	mapping := make(ColumnMapping, len(r.candidates))
	for _, fc := range r.candidates {
		if binding, ok := firstMatch(fc.Candidates, columns, normalized); ok {
			mapping[fc.Field] = binding
		}
	}
	return mapping
}

func firstMatch(candidates []string, columns, normalized []string) (ColumnBinding, bool) {
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		for i, col := range normalized {
			if col == "" {
				continue
			}
			if strings.Contains(col, cand) {
				return ColumnBinding{ColumnIndex: i, ColumnName: columns[i]}, true
			}
		}
	}
	return ColumnBinding{}, false
}
