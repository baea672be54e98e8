package pipeline

import (
	"testing"

	"github.com/danisikibeye/diploma_registry/models"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		d    models.Diploma
		want Status
	}{
		{"no file", models.Diploma{}, StatusDraft},
		{"file only", models.Diploma{FileURL: "https://cdn/doc.pdf"}, StatusIssued},
		{"authentic", models.Diploma{FileURL: "https://cdn/doc.pdf", Authentic: true}, StatusAuthenticated},
	}
	for _, tc := range cases {
		if got := StatusOf(&tc.d); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestTransitions(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusDraft, StatusIssued}:         true,
		{StatusIssued, StatusAuthenticated}: true,
	}
	all := []Status{StatusDraft, StatusIssued, StatusAuthenticated}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: got %v want %v", from, to, got, want)
			}
		}
	}
}

func TestAuthenticatedIsTerminal(t *testing.T) {
	for _, to := range []Status{StatusDraft, StatusIssued, StatusAuthenticated} {
		if StatusAuthenticated.CanTransition(to) {
			t.Errorf("authenticated must be terminal, allowed transition to %s", to)
		}
	}
}
