package core

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"-45.99", -4599, true},
		{"-45,99", -4599, true},
		{"+2.50", 250, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1..", 0, false},
		{"", 0, false},
		{"--1", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !IsValidation(err) {
				t.Fatalf("%q expected ValidationError, got %T", tc.in, err)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{4599, "45.99"},
		{-4599, "-45.99"},
		{100000, "1000.00"},
	}
	for _, tc := range cases {
		if got := CentsOf(tc.cents).String(); got != tc.want {
			t.Fatalf("%d expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := CentsOf(-4599)
	if a.Abs().Cents != 4599 {
		t.Fatalf("Abs: got %d", a.Abs().Cents)
	}
	if a.Neg().Cents != 4599 {
		t.Fatalf("Neg: got %d", a.Neg().Cents)
	}
	if got := CentsOf(100).Add(CentsOf(-30)).Cents; got != 70 {
		t.Fatalf("Add: got %d", got)
	}
	if got := CentsOf(100).Sub(CentsOf(30)).Cents; got != 70 {
		t.Fatalf("Sub: got %d", got)
	}
}
