package model

import "testing"

func TestItemStatusValid(t *testing.T) {
	valid := []ItemStatus{StatusMaintenance, StatusAvailable, StatusUnavailable, StatusLost, StatusDonated}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	if ItemStatus("BROKEN").Valid() {
		t.Error("expected unknown status to be invalid")
	}
	if ItemStatus("").Valid() {
		t.Error("expected empty status to be invalid")
	}
	if ItemStatus("available").Valid() {
		t.Error("statuses are case-sensitive")
	}
}

func TestItemStatusLive(t *testing.T) {
	for _, s := range []ItemStatus{StatusMaintenance, StatusAvailable, StatusUnavailable} {
		if !s.Live() {
			t.Errorf("expected %q to be live", s)
		}
	}
	for _, s := range []ItemStatus{StatusLost, StatusDonated} {
		if s.Live() {
			t.Errorf("expected %q to be absorbing", s)
		}
	}
}
