package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("24.12.1999")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year != 1999 || d.Month != time.December || d.Day != 24 {
		t.Fatalf("got %+v", d)
	}
	if d.String() != "24.12.1999" {
		t.Fatalf("round trip: %q", d.String())
	}
}

func TestParseDateRejectsOtherLayouts(t *testing.T) {
	for _, s := range []string{"1999-12-24", "12/24/1999", "24.12.99", "not a date"} {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("%q accepted", s)
		}
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(1999, time.December, 24)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"24.12.1999"` {
		t.Fatalf("marshal: %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip: %+v", back)
	}
}

func TestDateZeroValue(t *testing.T) {
	var d Date
	if !d.IsZero() {
		t.Fatal("zero value not zero")
	}
	if d == NewDate(1999, time.December, 24) {
		t.Fatal("zero equals a real date")
	}
}
