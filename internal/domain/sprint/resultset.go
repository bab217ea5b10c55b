package sprint

// ResultSet is the ordered output of one fetch. It is rebuilt on every
// refresh and never persisted.
type ResultSet []TicketRecord

func (rs ResultSet) Len() int {
	return len(rs)
}

func (rs ResultSet) IsEmpty() bool {
	return len(rs) == 0
}

// SprintName returns the sprint of the first record, or "" when empty.
func (rs ResultSet) SprintName() string {
	if len(rs) == 0 {
		return ""
	}
	return rs[0].SprintName
}

// Distinct counts the distinct values of f.
func (rs ResultSet) Distinct(f Field) int {
	seen := make(map[string]struct{}, len(rs))
	for _, r := range rs {
		seen[r.Value(f)] = struct{}{}
	}
	return len(seen)
}
