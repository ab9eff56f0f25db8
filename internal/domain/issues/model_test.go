package issues

import (
	"reflect"
	"testing"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"none", "rebar delivery is late again", nil},
		{"single", "ping @rosa.alvarez about the pour", []string{"rosa.alvarez"}},
		{"multiple", "@marcus_w and @rosa.alvarez please review", []string{"marcus_w", "rosa.alvarez"}},
		{"dedup", "@rosa @rosa @rosa", []string{"rosa"}},
		{"hyphen and digits", "assigned to @crew-2 per @pm1", []string{"crew-2", "pm1"}},
		{"email not per-char split", "send to @ops.team-1", []string{"ops.team-1"}},
		{"bare at", "meet @ the trailer", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMentions(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractMentions(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusResolved, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusOpen, true},
		{StatusResolved, StatusOpen, true},
		{StatusResolved, StatusClosed, true},
		{StatusClosed, StatusOpen, false},
		{StatusClosed, StatusResolved, false},
		{StatusResolved, StatusInProgress, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIssueValidate(t *testing.T) {
	iss := &Issue{Title: "Cracked slab in bay 3", Status: StatusOpen, Priority: PriorityHigh}
	if err := iss.Validate(); err != nil {
		t.Errorf("valid issue rejected: %v", err)
	}

	iss.Title = "   "
	if err := iss.Validate(); err == nil {
		t.Error("expected error for blank title")
	}

	iss.Title = "Cracked slab"
	iss.Priority = "critical"
	if err := iss.Validate(); err == nil {
		t.Error("expected error for unknown priority")
	}
}
