package docdb

// Matches evaluates the clause against a document. The ordering operators
// are phrased in terms of the operand's own Less and Equals applied to the
// document value, so a missing or differently-typed field makes both Less and
// Equals false: such a field passes IsGreaterThan and IsGreaterThanOrEqualTo
// and fails IsLessThan and IsLessThanOrEqualTo.
func (c Clause) Matches(doc Document) bool {
	v := doc.Get(c.key)
	switch c.op {
	case OpExists:
		return v.Exists()
	case OpDoesNotExist:
		return !v.Exists()
	case OpIsNull:
		return v.IsNull()
	case OpIsNotNull:
		return v.Exists() && !v.IsNull()
	case OpIsNullOrDoesNotExist:
		return !v.Exists() || v.IsNull()
	case OpIsEqualTo:
		return c.cmp.Equals(v)
	case OpIsNotEqualTo:
		return !c.cmp.Equals(v)
	case OpIsLessThan:
		return c.cmp.Less(v)
	case OpIsLessThanOrEqualTo:
		return c.cmp.Less(v) || c.cmp.Equals(v)
	case OpIsGreaterThan:
		return !(c.cmp.Equals(v) || c.cmp.Less(v))
	case OpIsGreaterThanOrEqualTo:
		return !c.cmp.Less(v)
	case OpIsAnyOf:
		return c.set.Contains(v)
	case OpIsNoneOf:
		return !c.set.Contains(v)
	default:
		return false
	}
}

// Match reports whether doc satisfies every clause. An empty clause list
// matches any document.
func Match(doc Document, clauses []Clause) bool {
	return rejectingClause(doc, clauses) < 0
}

// rejectingClause returns the index of the first clause doc fails, or -1.
// Clauses after the first failure are not evaluated.
func rejectingClause(doc Document, clauses []Clause) int {
	for i, c := range clauses {
		if !c.Matches(doc) {
			return i
		}
	}
	return -1
}

// Project restricts doc to the given keys. With no keys the document is
// returned as is. Keys missing from doc are left out of the result.
func Project(doc Document, columns []string) Document {
	if len(columns) == 0 {
		return doc
	}
	out := make(Document, len(columns))
	for _, k := range columns {
		if v, ok := doc[k]; ok {
			out[k] = v
		}
	}
	return out
}
