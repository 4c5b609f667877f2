package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBack(t *testing.T) {
	if IsValid("") || IsValid("Mars/Olympus") {
		t.Fatal("invalid zones accepted")
	}
	if got := Location("Mars/Olympus"); got == nil {
		t.Fatal("nil location")
	}
}

func TestDateOfKeepsCivilDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	// 22:30 em São Paulo já é o dia seguinte em UTC
	local := time.Date(2026, 3, 9, 22, 30, 0, 0, loc)

	got := dateOf(local)
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("dateOf = %s, want %s", got, want)
	}
}
