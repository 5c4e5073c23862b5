package docdb

import (
	"fmt"
	"strings"
)

// Op is the operator of a query clause.
type Op uint8

const (
	OpExists Op = iota + 1
	OpDoesNotExist
	OpIsNull
	OpIsNotNull
	OpIsNullOrDoesNotExist
	OpIsEqualTo
	OpIsNotEqualTo
	OpIsLessThan
	OpIsLessThanOrEqualTo
	OpIsGreaterThan
	OpIsGreaterThanOrEqualTo
	OpIsAnyOf
	OpIsNoneOf
)

var opNames = [...]string{
	OpExists:                 "exists",
	OpDoesNotExist:           "doesNotExist",
	OpIsNull:                 "isNull",
	OpIsNotNull:              "isNotNull",
	OpIsNullOrDoesNotExist:   "isNullOrDoesNotExist",
	OpIsEqualTo:              "isEqualTo",
	OpIsNotEqualTo:           "isNotEqualTo",
	OpIsLessThan:             "isLessThan",
	OpIsLessThanOrEqualTo:    "isLessThanOrEqualTo",
	OpIsGreaterThan:          "isGreaterThan",
	OpIsGreaterThanOrEqualTo: "isGreaterThanOrEqualTo",
	OpIsAnyOf:                "isAnyOf",
	OpIsNoneOf:               "isNoneOf",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// ParseOp accepts the operator names returned by Op.String, case-insensitively.
func ParseOp(s string) (Op, error) {
	for op, name := range opNames {
		if name != "" && strings.EqualFold(name, s) {
			return Op(op), nil
		}
	}
	return 0, fmt.Errorf("docdb: unknown query operator %q", s)
}

// HasOperand reports whether clauses with this operator carry a value.
func (op Op) HasOperand() bool {
	return op >= OpIsEqualTo
}

// IsOrdering reports whether the operator needs an ordered operand.
func (op Op) IsOrdering() bool {
	return op >= OpIsLessThan && op <= OpIsGreaterThanOrEqualTo
}

// IsMembership reports whether the operator takes a set operand.
func (op Op) IsMembership() bool {
	return op == OpIsAnyOf || op == OpIsNoneOf
}

// Clause is one predicate against one document field. A query is the
// conjunction of its clauses. Clauses are plain data; see Matches.
type Clause struct {
	op  Op
	key string
	cmp Comparable   // operand of equality and ordering operators
	set EquatableSet // operand of membership operators
}

func Exists(key string) Clause               { return Clause{op: OpExists, key: key} }
func DoesNotExist(key string) Clause         { return Clause{op: OpDoesNotExist, key: key} }
func IsNull(key string) Clause               { return Clause{op: OpIsNull, key: key} }
func IsNotNull(key string) Clause            { return Clause{op: OpIsNotNull, key: key} }
func IsNullOrDoesNotExist(key string) Clause { return Clause{op: OpIsNullOrDoesNotExist, key: key} }

func IsEqualTo(key string, v any) Clause {
	return Clause{op: OpIsEqualTo, key: key, cmp: Comparable{EqualTo(v)}}
}

func IsNotEqualTo(key string, v any) Clause {
	return Clause{op: OpIsNotEqualTo, key: key, cmp: Comparable{EqualTo(v)}}
}

func IsLessThan[T Ordered](key string, v T) Clause {
	return Clause{op: OpIsLessThan, key: key, cmp: CompareTo(v)}
}

func IsLessThanOrEqualTo[T Ordered](key string, v T) Clause {
	return Clause{op: OpIsLessThanOrEqualTo, key: key, cmp: CompareTo(v)}
}

func IsGreaterThan[T Ordered](key string, v T) Clause {
	return Clause{op: OpIsGreaterThan, key: key, cmp: CompareTo(v)}
}

func IsGreaterThanOrEqualTo[T Ordered](key string, v T) Clause {
	return Clause{op: OpIsGreaterThanOrEqualTo, key: key, cmp: CompareTo(v)}
}

func IsAnyOf[T any](key string, values ...T) Clause {
	return Clause{op: OpIsAnyOf, key: key, set: SetOf(values...)}
}

func IsNoneOf[T any](key string, values ...T) Clause {
	return Clause{op: OpIsNoneOf, key: key, set: SetOf(values...)}
}

// NewClause builds a clause from run-time parts. The operand is ignored by
// operators that take none, must be of an ordered kind for ordering operators,
// and is expanded into a set (if it is an array) for membership operators.
func NewClause(op Op, key string, operand Value) (Clause, error) {
	if op == 0 || int(op) >= len(opNames) {
		return Clause{}, fmt.Errorf("docdb: invalid query operator %v", op)
	}
	c := Clause{op: op, key: key}
	switch {
	case !op.HasOperand():
	case op.IsMembership():
		c.set = SetOfValue(operand)
	case op.IsOrdering():
		cmp, err := ComparableOf(operand)
		if err != nil {
			return Clause{}, fmt.Errorf("%s %v: %w", key, op, err)
		}
		c.cmp = cmp
	default:
		if operand.IsAbsent() {
			return Clause{}, fmt.Errorf("docdb: %s %v: missing operand", key, op)
		}
		c.cmp = Comparable{Equatable{operand}}
	}
	return c, nil
}

func (c Clause) Op() Op              { return c.op }
func (c Clause) Key() string         { return c.key }
func (c Clause) Operand() Comparable { return c.cmp }
func (c Clause) Set() EquatableSet   { return c.set }

func (c Clause) String() string {
	switch {
	case c.op.IsMembership():
		return fmt.Sprintf("%s %v %v", c.key, c.op, c.set)
	case c.op.HasOperand():
		return fmt.Sprintf("%s %v %v", c.key, c.op, c.cmp)
	default:
		return fmt.Sprintf("%s %v", c.key, c.op)
	}
}
