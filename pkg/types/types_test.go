package types

import (
	"bytes"
	"testing"

	"heapdb/pkg/primitives"
)

func TestTypeSize(t *testing.T) {
	tests := []struct {
		name     string
		fieldType Type
		expected uint32
	}{
		{"Int is 8 bytes", IntType, 8},
		{"String is length prefix plus payload", StringType, 4 + StringMaxSize},
		{"Bool is 1 byte", BoolType, 1},
		{"Float is 8 bytes", FloatType, 8},
		{"Unknown type has no size", Type(99), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fieldType.Size(); got != tt.expected {
				t.Errorf("Expected size %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestIntFieldCompare(t *testing.T) {
	five := NewIntField(5)
	ten := NewIntField(10)

	tests := []struct {
		name     string
		op       primitives.Predicate
		left     *IntField
		right    *IntField
		expected bool
	}{
		{"5 equals 5", primitives.Equals, five, NewIntField(5), true},
		{"5 not equals 10", primitives.NotEqual, five, ten, true},
		{"5 less than 10", primitives.LessThan, five, ten, true},
		{"10 greater than 5", primitives.GreaterThan, ten, five, true},
		{"5 not greater than 10", primitives.GreaterThan, five, ten, false},
		{"5 less than or equal 5", primitives.LessThanOrEqual, five, NewIntField(5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.left.Compare(tt.op, tt.right)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIntFieldSerializeParse(t *testing.T) {
	values := []int64{0, 1, -1, 42, -9223372036854775808, 9223372036854775807}

	for _, v := range values {
		buf := &bytes.Buffer{}
		if err := NewIntField(v).Serialize(buf); err != nil {
			t.Fatalf("Serialize failed for %d: %v", v, err)
		}
		if buf.Len() != 8 {
			t.Errorf("Expected 8 serialized bytes for %d, got %d", v, buf.Len())
		}

		parsed, err := ParseField(buf, IntType)
		if err != nil {
			t.Fatalf("ParseField failed for %d: %v", v, err)
		}
		if !parsed.Equals(NewIntField(v)) {
			t.Errorf("Round trip changed value: expected %d, got %s", v, parsed.String())
		}
	}
}

func TestStringFieldSerializeParse(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Empty string", ""},
		{"Short string", "hello"},
		{"Max length string", string(bytes.Repeat([]byte{'x'}, StringMaxSize))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			field := NewStringField(tt.value)
			if err := field.Serialize(buf); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if uint32(buf.Len()) != StringType.Size() {
				t.Errorf("Expected fixed width %d, got %d", StringType.Size(), buf.Len())
			}

			parsed, err := ParseField(buf, StringType)
			if err != nil {
				t.Fatalf("ParseField failed: %v", err)
			}
			if !parsed.Equals(field) {
				t.Errorf("Round trip changed value: expected %q, got %q", tt.value, parsed.String())
			}
		})
	}
}

func TestStringFieldTruncation(t *testing.T) {
	long := string(bytes.Repeat([]byte{'a'}, StringMaxSize+50))
	field := NewStringField(long)

	if len(field.Value) != StringMaxSize {
		t.Errorf("Expected value truncated to %d bytes, got %d", StringMaxSize, len(field.Value))
	}
}

func TestStringFieldLike(t *testing.T) {
	haystack := NewStringField("database systems")

	match, err := haystack.Compare(primitives.Like, NewStringField("base"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !match {
		t.Errorf("Expected substring match")
	}

	match, err = haystack.Compare(primitives.Like, NewStringField("missing"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if match {
		t.Errorf("Expected no match")
	}
}

func TestBoolFieldCompare(t *testing.T) {
	yes := NewBoolField(true)
	no := NewBoolField(false)

	equal, err := yes.Compare(primitives.Equals, NewBoolField(true))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !equal {
		t.Errorf("Expected true == true")
	}

	notEqual, err := yes.Compare(primitives.NotEqual, no)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !notEqual {
		t.Errorf("Expected true != false")
	}

	ordered, err := yes.Compare(primitives.LessThan, no)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ordered {
		t.Errorf("Ordered comparison of booleans must yield false")
	}
}

func TestFieldCrossTypeEquality(t *testing.T) {
	if NewIntField(1).Equals(NewStringField("1")) {
		t.Errorf("Int and string fields must never be equal")
	}
	if NewBoolField(true).Equals(NewIntField(1)) {
		t.Errorf("Bool and int fields must never be equal")
	}
}

func TestFieldHashDeterminism(t *testing.T) {
	a, err := NewStringField("deterministic").Hash()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := NewStringField("deterministic").Hash()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("Equal values must hash equal: %d != %d", a, b)
	}
}
