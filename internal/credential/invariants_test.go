package credential

import (
	"strings"
	"testing"
)

func TestCheckInvariants_ValidRecord(t *testing.T) {
	if v := CheckInvariants(validRecord()); len(v) != 0 {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestCheckInvariants_DateOrdering(t *testing.T) {
	cases := []struct {
		name       string
		sd, ed, di string
		valid      bool
	}{
		{"sd before ed", "2024-01-01", "2024-06-01", "2024-01-01", true},
		{"sd equals ed", "2024-06-01", "2024-06-01", "2024-06-01", false},
		{"sd after ed", "2024-07-01", "2024-06-01", "2024-06-15", false},
		{"di before sd", "2024-02-01", "2024-06-01", "2024-01-15", false},
		{"di after ed", "2024-01-01", "2024-06-01", "2024-07-01", false},
		{"di at sd", "2024-01-01", "2024-06-01", "2024-01-01", true},
		{"di at ed", "2024-01-01", "2024-06-01", "2024-06-01", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := validRecord()
			r.ValidFrom, r.ValidUntil, r.IssuedAt = c.sd, c.ed, c.di
			v := CheckInvariants(r)
			if c.valid && len(v) != 0 {
				t.Fatalf("expected valid, got %v", v)
			}
			if !c.valid && len(v) == 0 {
				t.Fatal("expected violations")
			}
		})
	}
}

func TestCheckInvariants_Expiry(t *testing.T) {
	r := validRecord()
	r.ExpiresAt = "2024-05-31" // antes de ed
	if v := CheckInvariants(r); len(v) == 0 {
		t.Fatal("xd before ed must be rejected")
	}
	r.ExpiresAt = "2024-06-01" // igual a ed
	if v := CheckInvariants(r); len(v) != 0 {
		t.Fatalf("xd equal to ed must pass, got %v", v)
	}
}

// Regla de largo combinado: ii + in <= 25.
func TestCheckInvariants_CombinedLength(t *testing.T) {
	r := validRecord()
	r.InstitutionID = "123456"                // 6
	r.Institution = strings.Repeat("x", 20)   // 6+20 = 26
	if v := CheckInvariants(r); len(v) == 0 {
		t.Fatal("combined length 26 must be rejected")
	}

	r.Institution = strings.Repeat("x", 19) // 6+19 = 25
	if v := CheckInvariants(r); len(v) != 0 {
		t.Fatalf("combined length 25 must pass, got %v", v)
	}
}

// Todas las violaciones se reportan juntas.
func TestCheckInvariants_CollectsAll(t *testing.T) {
	r := validRecord()
	r.ValidFrom = "2024-07-01" // sd > ed y di < sd
	r.InstitutionID = "1234567890"
	r.Institution = strings.Repeat("x", 21)

	v := CheckInvariants(r)
	if len(v) < 2 {
		t.Fatalf("expected multiple violations, got %v", v)
	}
}

func TestCheckInvariants_UnparseableDates(t *testing.T) {
	r := validRecord()
	r.ValidFrom = "01/01/2024"
	if v := CheckInvariants(r); len(v) == 0 {
		t.Fatal("unparseable sd must be a violation")
	}
}

func TestValidBirthDate(t *testing.T) {
	valids := []string{"1990-05-12", "1990-00-00", "1990-05-00", "1990-00-31", "2000-02-29"}
	for _, d := range valids {
		if !ValidBirthDate(d) {
			t.Fatalf("expected valid: %q", d)
		}
	}
	invalids := []string{"", "1990-13-00", "1990-00-32", "1990-02-30", "1990-5-1", "abcd-ef-gh", "2001-02-29"}
	for _, d := range invalids {
		if ValidBirthDate(d) {
			t.Fatalf("expected invalid: %q", d)
		}
	}
}
