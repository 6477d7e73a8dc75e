// internal/status/status_test.go
package status

import "testing"

func TestAddressKeyRoundTrip(t *testing.T) {
	a := Address{System: 2, Index: 17}
	if a.Key() != "2-17" {
		t.Fatalf("key: got %q", a.Key())
	}
	b, err := ParseAddress(a.Key())
	if err != nil {
		t.Fatalf("ParseAddress err=%v", err)
	}
	if b != a {
		t.Fatalf("round trip: got %v want %v", b, a)
	}
}

func TestParseAddress_Rejects(t *testing.T) {
	for _, s := range []string{"", "3", "a-1", "1-300", "1-"} {
		if _, err := ParseAddress(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestSortAddresses(t *testing.T) {
	as := []Address{{1, 0}, {0, 5}, {0, 1}}
	SortAddresses(as)
	want := []Address{{0, 1}, {0, 5}, {1, 0}}
	for i := range want {
		if as[i] != want[i] {
			t.Fatalf("pos %d: got %v want %v", i, as[i], want[i])
		}
	}
}

func TestCarryForwardKeepsValues(t *testing.T) {
	u := UnitStatus{Available: true, Power: true, TargetTemp: 23, CurrentTemp: Int(21)}
	c := u.CarryForward()
	if c.Available {
		t.Fatalf("carry-forward must be unavailable")
	}
	if !c.Power || c.TargetTemp != 23 || *c.CurrentTemp != 21 {
		t.Fatalf("values not carried: %+v", c)
	}
	if !u.Available {
		t.Fatalf("original mutated")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	units := map[Address]UnitStatus{
		{0, 0}: {Available: true},
		{0, 1}: {Available: false},
	}
	s := NewSnapshot([]Address{{0, 0}, {0, 1}, {0, 2}}, units)

	units[Address{0, 0}] = UnitStatus{}

	got, ok := s.Get(Address{0, 0})
	if !ok || !got.Available {
		t.Fatalf("snapshot shares map with caller")
	}
	if s.Len() != 2 {
		t.Fatalf("len: got %d want 2", s.Len())
	}
	if s.Available() != 1 {
		t.Fatalf("available: got %d want 1", s.Available())
	}
	if _, ok := s.ByKey()["0-1"]; !ok {
		t.Fatalf("ByKey missing 0-1")
	}
}

func TestHealthOf(t *testing.T) {
	cases := []struct {
		avail, total int
		want         Health
	}{
		{0, 0, HealthUnknown},
		{3, 3, HealthOK},
		{1, 3, HealthDegraded},
		{0, 3, HealthError},
	}
	for _, c := range cases {
		if got := HealthOf(c.avail, c.total); got != c.want {
			t.Fatalf("HealthOf(%d,%d)=%s want %s", c.avail, c.total, got, c.want)
		}
	}
}

func TestFault(t *testing.T) {
	if (Fault{}).Active() {
		t.Fatalf("zero fault active")
	}
	if (Fault{Text: "E1"}).String() != "E1" {
		t.Fatalf("text fault string")
	}
	if (Fault{Code: 12}).String() != "12" {
		t.Fatalf("code fault string")
	}
}

func TestIdentity_Known(t *testing.T) {
	if (Identity{}).Known() {
		t.Fatalf("zero identity must not be known")
	}
	if !(Identity{BrandCode: 6, BrandName: "Daikin VRF"}).Known() {
		t.Fatalf("identity with a brand must be known")
	}
}
