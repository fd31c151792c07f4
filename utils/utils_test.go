// utils_test.go — validation for the zero-alloc helpers.

package utils

import (
	"strconv"
	"testing"
)

func TestB2sS2bRoundtrip(t *testing.T) {
	cases := []string{"", "x", "worker 3: drained", "Ω fibers"}
	for _, want := range cases {
		if got := B2s(S2b(want)); got != want {
			t.Fatalf("roundtrip %q -> %q", want, got)
		}
	}
}

func TestB2sEmpty(t *testing.T) {
	if B2s(nil) != "" {
		t.Fatal("nil slice should map to the empty string")
	}
	if S2b("") != nil {
		t.Fatal("empty string should map to a nil slice")
	}
}

func TestUtoa(t *testing.T) {
	cases := []uint64{0, 1, 9, 10, 224, 1024000, 18446744073709551615}
	for _, v := range cases {
		got := string(Utoa(nil, v))
		if want := strconv.FormatUint(v, 10); got != want {
			t.Fatalf("Utoa(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestUtoaAppends(t *testing.T) {
	buf := []byte("inflight=")
	buf = Utoa(buf, 42)
	if string(buf) != "inflight=42" {
		t.Fatalf("append form produced %q", buf)
	}
}

func BenchmarkUtoa(b *testing.B) {
	var buf [24]byte
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Utoa(buf[:0], uint64(i))
	}
}
