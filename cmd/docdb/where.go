package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andreyvit/docdb"
)

var whereOps = map[string]docdb.Op{
	"exists":  docdb.OpExists,
	"!exists": docdb.OpDoesNotExist,
	"null":    docdb.OpIsNull,
	"!null":   docdb.OpIsNotNull,
	"nullish": docdb.OpIsNullOrDoesNotExist,
	"==":      docdb.OpIsEqualTo,
	"!=":      docdb.OpIsNotEqualTo,
	"<":       docdb.OpIsLessThan,
	"<=":      docdb.OpIsLessThanOrEqualTo,
	">":       docdb.OpIsGreaterThan,
	">=":      docdb.OpIsGreaterThanOrEqualTo,
	"in":      docdb.OpIsAnyOf,
	"nin":     docdb.OpIsNoneOf,
}

// parseWhere turns "key op [value]" into a clause. Values are JSON literals;
// anything that isn't valid JSON is taken as a string. Set operands are
// written as [a,b,...].
func parseWhere(expr string) (docdb.Clause, error) {
	fields := strings.Fields(expr)
	if len(fields) < 2 {
		return docdb.Clause{}, fmt.Errorf("where %q: expected \"key op [value]\"", expr)
	}
	key, opStr := fields[0], fields[1]
	op, ok := whereOps[opStr]
	if !ok {
		var err error
		op, err = docdb.ParseOp(opStr)
		if err != nil {
			return docdb.Clause{}, fmt.Errorf("where %q: unknown operator %q", expr, opStr)
		}
	}

	rest := strings.TrimSpace(expr)
	rest = strings.TrimSpace(rest[len(key):])
	rest = strings.TrimSpace(rest[len(opStr):])
	if !op.HasOperand() {
		if rest != "" {
			return docdb.Clause{}, fmt.Errorf("where %q: %v takes no value", expr, op)
		}
		return docdb.NewClause(op, key, docdb.Value{})
	}
	if rest == "" {
		return docdb.Clause{}, fmt.Errorf("where %q: missing value", expr)
	}

	var operand docdb.Value
	if op.IsMembership() {
		operand = parseSetLiteral(rest)
	} else {
		operand = parseLiteral(rest)
	}
	c, err := docdb.NewClause(op, key, operand)
	if err != nil {
		return docdb.Clause{}, fmt.Errorf("where %q: %w", expr, err)
	}
	return c, nil
}

func parseLiteral(s string) docdb.Value {
	var v docdb.Value
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return docdb.String(s)
}

func parseSetLiteral(s string) docdb.Value {
	if v := parseLiteral(s); v.Kind() == docdb.KindArray {
		return v
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	var items []docdb.Value
	for _, part := range strings.Split(inner, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, parseLiteral(part))
		}
	}
	return docdb.Array(items...)
}
