package bigexpr

import (
	"errors"
	"testing"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		name string
		in   string
		typ  Type
		want string
	}{
		{"int", "-42", TypeInt, "-42"},
		{"rat", "3/6", TypeRat, "1/2"},
		{"decimal", "1.25", TypeRat, "5/4"},
		{"exponent", "1e-3", TypeRat, "1/1000"},
		{"inf", "inf", TypeFloat, "+Inf"},
		{"neg-inf", "-∞", TypeFloat, "-Inf"},
		{"float", "f:1.5", TypeFloat, "1.5"},
		{"poly", "poly:1,2", TypePoly, ""},
		{"mat", "mat:2x2:1,2,3,1/2", TypeMat, "[[1 2] [3 1/2]]"},
		{"mat-row", "mat:1x3: 1, 2 ,3", TypeMat, "[[1 2 3]]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := ParseValue(c.in, 64)
			if err != nil {
				t.Fatal(err)
			}
			if got := TypeOf(v); got != c.typ {
				t.Errorf("wrong type: want %v, got %v", c.typ, got)
			}
			if c.want != "" && Format(v) != c.want {
				t.Errorf("want %s, got %s", c.want, Format(v))
			}
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind string
	}{
		{"empty", "  ", "value"},
		{"word", "x", "value"},
		{"float", "f:one", "float"},
		{"poly", "poly:1,x", "polynomial"},
		{"mat-short", "mat:2x2:1,2,3", "matrix"},
		{"mat-long", "mat:1x1:1,2", "matrix"},
		{"mat-zero", "mat:0x1:1", "matrix"},
		{"mat-neg", "mat:-1x-1:1", "matrix"},
		{"mat-dims", "mat:2:1,2", "matrix"},
		{"mat-entry", "mat:1x2:1,y", "matrix"},
		// The product of these dimensions wraps to 1 in an int.
		{"mat-overflow", "mat:7x7905747460161236407:5", "matrix"},
		{"mat-huge", "mat:3037000500x3037000500:1", "matrix"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := ParseValue(c.in, 64)
			var ve *ValueError
			if !errors.As(err, &ve) {
				t.Fatalf("want *ValueError, got %v, %v", v, err)
			}
			if ve.Kind != c.kind {
				t.Errorf("wrong kind: want %s, got %s", c.kind, ve.Kind)
			}
		})
	}
}
