package models

import "testing"

func TestSignerFullName(t *testing.T) {
	cases := []struct {
		name   string
		signer Signer
		want   string
	}{
		{"all parts", Signer{LastName: "Kalala", MiddleName: "Mbuyi", FirstName: "Jean"}, "Kalala Mbuyi Jean"},
		{"no middle name", Signer{LastName: "Kalala", FirstName: "Jean"}, "Kalala Jean"},
	}
	for _, tc := range cases {
		if got := tc.signer.FullName(); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}
