package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Int is an integer that older clients and documents sometimes carry as a
// numeric string. Both forms decode; it is always written back as an integer.
type Int int

// Number is the float counterpart of Int, used for prices.
type Number float64

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidInput, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, s)
	}
	return intFromFloat(f)
}

// intFromFloat converts f toward zero, failing when the result does not fit
// in an int. NaN and the infinities fail the range check.
func intFromFloat(f float64) (int, error) {
	if !(f >= math.MinInt && f < math.MaxInt) {
		return 0, fmt.Errorf("%w: %v is out of range", ErrInvalidInput, f)
	}
	return int(f), nil
}

// storedInt reads a value already in the database. Fractions are dropped,
// the same way the $toLong conversion in the store's update pipelines does,
// so a legacy 2.7 reads as 2 here and counts as 2 in an atomic increment.
func storedInt(f float64) (Int, error) {
	v, err := intFromFloat(math.Trunc(f))
	return Int(v), err
}

func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, s)
	}
	return f, nil
}

// unquoteJSON strips the quotes of a JSON string literal; numbers pass through.
func unquoteJSON(b []byte) string {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		return unq
	}
	return s
}

func (n *Int) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	v, err := parseInt(unquoteJSON(b))
	if err != nil {
		return err
	}
	*n = Int(v)
	return nil
}

func (n Int) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(int64(n))
}

func (n *Int) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeInt32:
		*n = Int(rv.Int32())
	case bson.TypeInt64:
		*n = Int(rv.Int64())
	case bson.TypeDouble:
		v, err := storedInt(rv.Double())
		if err != nil {
			return err
		}
		*n = v
	case bson.TypeString:
		f, err := parseNumber(rv.StringValue())
		if err != nil {
			return err
		}
		v, err := storedInt(f)
		if err != nil {
			return err
		}
		*n = v
	case bson.TypeNull, bson.TypeUndefined:
		*n = 0
	default:
		return fmt.Errorf("cannot decode %s into an integer", t)
	}
	return nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	v, err := parseNumber(unquoteJSON(b))
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func (n Number) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(float64(n))
}

func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDouble:
		*n = Number(rv.Double())
	case bson.TypeInt32:
		*n = Number(rv.Int32())
	case bson.TypeInt64:
		*n = Number(rv.Int64())
	case bson.TypeString:
		v, err := parseNumber(rv.StringValue())
		if err != nil {
			return err
		}
		*n = Number(v)
	case bson.TypeNull, bson.TypeUndefined:
		*n = 0
	default:
		return fmt.Errorf("cannot decode %s into a number", t)
	}
	return nil
}
