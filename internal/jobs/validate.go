package jobs

import (
	"regexp"
	"strings"
)

// maxEmailLength is the RFC 5321 mailbox limit.
const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validation is the outcome of a payload check. Validators never panic and
// never return a Go error; an invalid payload carries a human-readable
// reason instead.
type Validation struct {
	Valid  bool
	Reason string
}

func valid() Validation {
	return Validation{Valid: true}
}

func invalid(reason string) Validation {
	return Validation{Reason: reason}
}

// ValidateEmail checks the email job payload: a plausible address within the
// mail-address length limit and a non-empty subject.
func ValidateEmail(email, subject string) Validation {
	if len(email) > maxEmailLength {
		return invalid("email address is too long")
	}
	if !emailPattern.MatchString(email) {
		return invalid("invalid email address")
	}
	if strings.TrimSpace(subject) == "" {
		return invalid("subject must not be empty")
	}
	return valid()
}

// ValidateUserID checks the analytics and subscription-check payloads.
func ValidateUserID(userID string) Validation {
	if strings.TrimSpace(userID) == "" {
		return invalid("userId must not be empty")
	}
	return valid()
}
