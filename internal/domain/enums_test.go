package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"citizen", RoleCitizen, false},
		{"ADMIN", RoleAdmin, false},
		{" System_Admin ", RoleSystemAdmin, false},
		{"superuser", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr != (err != nil) {
			t.Errorf("ParseRole(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseIssueStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    IssueStatus
		wantErr bool
	}{
		{"SUBMITTED", IssueStatusSubmitted, false},
		{"submitted", IssueStatusSubmitted, false},
		{"in_progress", IssueStatusInProgress, false},
		{" resolved ", IssueStatusResolved, false},
		{"CLOSED", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseIssueStatus(tc.in)
		if tc.wantErr != (err != nil) {
			t.Errorf("ParseIssueStatus(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseIssueStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseIssueCategory(t *testing.T) {
	for _, valid := range []string{"ROADS", "lighting", "Waste", "other"} {
		if _, err := ParseIssueCategory(valid); err != nil {
			t.Errorf("ParseIssueCategory(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"PLUMBING", "", "roads lighting"} {
		if _, err := ParseIssueCategory(invalid); err == nil {
			t.Errorf("ParseIssueCategory(%q) expected error", invalid)
		}
	}
}

func TestStatusCountsTotal(t *testing.T) {
	counts := StatusCounts{Submitted: 3, InProgress: 2, Resolved: 1}
	if counts.Total() != 6 {
		t.Fatalf("Total() = %d, want 6", counts.Total())
	}
}
