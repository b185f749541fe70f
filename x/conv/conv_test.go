package conv

import "testing"

func TestItoa(t *testing.T) {
	var buf [20]byte
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{12500, "12500"},
		{-42, "-42"},
	}
	for _, c := range cases {
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestUtoa(t *testing.T) {
	var buf [20]byte
	if got := string(Utoa(buf[:], 65535)); got != "65535" {
		t.Fatalf("Utoa(65535) = %q", got)
	}
	if got := string(Utoa(buf[:], 0)); got != "0" {
		t.Fatalf("Utoa(0) = %q", got)
	}
}
