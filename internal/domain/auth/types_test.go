package auth

import (
	"testing"
	"time"
)

func TestSession_IsGuest(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleGuest, true},
		{RoleUser, false},
		{RoleAdmin, false},
		{Role("unknown"), false},
	}
	for _, tc := range tests {
		if got := (Session{Role: tc.role}).IsGuest(); got != tc.want {
			t.Errorf("IsGuest() with role %q = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now}

	if s.Expired(now) {
		t.Error("a session expiring exactly now is still valid")
	}
	if !s.Expired(now.Add(time.Nanosecond)) {
		t.Error("expected expiry one nanosecond past ExpiresAt")
	}
	if s.Expired(now.Add(-time.Hour)) {
		t.Error("session should be valid an hour before expiry")
	}
}
