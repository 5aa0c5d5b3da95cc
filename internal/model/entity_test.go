package model

import (
	"errors"
	"testing"

	"github.com/psds-microservice/helpdesk-service/internal/errs"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"client", "operator"} {
		r, err := ParseRole(s)
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", s, err)
		}
		if string(r) != s {
			t.Errorf("ParseRole(%q) = %q", s, r)
		}
	}
	for _, s := range []string{"", "admin", "Client", "OPERATOR"} {
		if _, err := ParseRole(s); !errors.Is(err, errs.ErrInvalidRole) {
			t.Errorf("ParseRole(%q): expected ErrInvalidRole, got %v", s, err)
		}
	}
}

func TestParseTicketState(t *testing.T) {
	for _, s := range []string{"open", "in_progress", "closed"} {
		if _, err := ParseTicketState(s); err != nil {
			t.Errorf("ParseTicketState(%q): unexpected error %v", s, err)
		}
	}
	for _, s := range []string{"", "reopened", "Open"} {
		if _, err := ParseTicketState(s); !errors.Is(err, errs.ErrInvalidState) {
			t.Errorf("ParseTicketState(%q): expected ErrInvalidState, got %v", s, err)
		}
	}
}

func TestParseTicketPriority(t *testing.T) {
	for _, s := range []string{"low", "medium", "high"} {
		if _, err := ParseTicketPriority(s); err != nil {
			t.Errorf("ParseTicketPriority(%q): unexpected error %v", s, err)
		}
	}
	for _, s := range []string{"", "urgent", "High"} {
		if _, err := ParseTicketPriority(s); !errors.Is(err, errs.ErrInvalidPriority) {
			t.Errorf("ParseTicketPriority(%q): expected ErrInvalidPriority, got %v", s, err)
		}
	}
}
