package enums

import "testing"

func TestParseUserStatusNormalizesLegacyCase(t *testing.T) {
	status, err := ParseUserStatus("Active")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != UserStatusActive {
		t.Fatalf("expected canonical lowercase, got %q", status)
	}
}

func TestMatchesToleratesStoredCapitalization(t *testing.T) {
	if !UserStatusActive.Matches("Active") {
		t.Fatal("legacy capitalized rows must still match")
	}
	if !UserStatusActive.Matches("active") {
		t.Fatal("canonical rows must match")
	}
	if UserStatusActive.Matches("inactive") {
		t.Fatal("inactive must not match active")
	}
}

func TestParseUserStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseUserStatus("suspended"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
