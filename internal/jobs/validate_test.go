package jobs

import (
	"strings"
	"testing"
)

func TestValidateEmailAccepts(t *testing.T) {
	valid := []string{
		"a@b.com",
		"user@example.com",
		"first.last+tag@sub.example.co",
	}
	for _, email := range valid {
		if v := ValidateEmail(email, "Test"); !v.Valid {
			t.Errorf("ValidateEmail(%q) rejected: %s", email, v.Reason)
		}
	}
}

func TestValidateEmailRejects(t *testing.T) {
	invalid := []string{
		"notanemail",
		"@example.com",
		"user@",
		"user example@test.com",
		"user@nodot",
		"a@" + strings.Repeat("x", 250) + ".com", // over the mailbox limit
	}
	for _, email := range invalid {
		v := ValidateEmail(email, "Test")
		if v.Valid {
			t.Errorf("ValidateEmail(%q) accepted, want rejection", email)
			continue
		}
		if !strings.Contains(strings.ToLower(v.Reason), "email") {
			t.Errorf("ValidateEmail(%q) reason %q does not mention email", email, v.Reason)
		}
	}
}

func TestValidateEmailSubject(t *testing.T) {
	for _, subject := range []string{"", "   ", "\t\n"} {
		if v := ValidateEmail("a@b.com", subject); v.Valid {
			t.Errorf("ValidateEmail with subject %q accepted, want rejection", subject)
		}
	}
	if v := ValidateEmail("a@b.com", "hi"); !v.Valid {
		t.Errorf("ValidateEmail with subject %q rejected: %s", "hi", v.Reason)
	}
}

func TestValidateUserID(t *testing.T) {
	for _, id := range []string{"", "   ", "\t"} {
		v := ValidateUserID(id)
		if v.Valid {
			t.Errorf("ValidateUserID(%q) accepted, want rejection", id)
			continue
		}
		if !strings.Contains(v.Reason, "userId") {
			t.Errorf("ValidateUserID(%q) reason %q does not mention userId", id, v.Reason)
		}
	}
	if v := ValidateUserID("user_123"); !v.Valid {
		t.Errorf("ValidateUserID rejected a valid id: %s", v.Reason)
	}
}
