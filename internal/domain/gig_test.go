package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func validDraft() GigDraft {
	return GigDraft{
		Title:         "Landing page",
		Description:   "Build a landing page",
		Category:      "Web Development",
		Location:      "Remote",
		BudgetMin:     100,
		BudgetMax:     300,
		DurationStart: "2026-01-01",
		DurationEnd:   "2026-01-14",
	}
}

func TestNewGig(t *testing.T) {
	owner := uuid.New()
	g, err := NewGig(owner, validDraft())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if g.Status != GigStatusOpen {
		t.Errorf("Expected status open, got %s", g.Status)
	}
	if g.PeopleNeeded != 1 {
		t.Errorf("Expected people_needed default 1, got %d", g.PeopleNeeded)
	}
	if g.ApplicationsCount != 0 {
		t.Errorf("Expected zero applications, got %d", g.ApplicationsCount)
	}
	if !g.OwnedBy(owner) || g.OwnedBy(uuid.New()) {
		t.Error("OwnedBy mismatch")
	}
}

func TestNewGigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GigDraft)
		want   error
	}{
		{"empty title", func(d *GigDraft) { d.Title = " " }, ErrEmptyGigTitle},
		{"empty description", func(d *GigDraft) { d.Description = "" }, ErrEmptyGigDescription},
		{"unknown category", func(d *GigDraft) { d.Category = "Astrology" }, ErrInvalidCategory},
		{"empty location", func(d *GigDraft) { d.Location = "" }, ErrEmptyGigLocation},
		{"negative budget", func(d *GigDraft) { d.BudgetMin = -1 }, ErrNegativeBudget},
		{"inverted budget", func(d *GigDraft) { d.BudgetMax = 50 }, ErrBudgetRange},
		{"negative people", func(d *GigDraft) { d.PeopleNeeded = -2 }, ErrPeopleNeeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			_, err := NewGig(uuid.New(), d)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestEqualBudgetAllowed(t *testing.T) {
	d := validDraft()
	d.BudgetMin, d.BudgetMax = 0, 0
	if _, err := NewGig(uuid.New(), d); err != nil {
		t.Errorf("Expected zero budget to be valid, got %v", err)
	}
}
