package index

import (
	"math"
	"reflect"
	"testing"
)

func TestFloat32CodecRoundTrip(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, math.MaxFloat32}
	out, err := decodeFloat32sInto(nil, encodeFloat32s(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestDecodeFloat32sInto_ReusesBuffer(t *testing.T) {
	buf := make([]float32, 8)
	out, err := decodeFloat32sInto(buf, encodeFloat32s([]float32{1, 2}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if &out[0] != &buf[0] {
		t.Error("buffer with sufficient capacity was not reused")
	}
	if len(out) != 2 {
		t.Errorf("len = %d, want 2", len(out))
	}
}

func TestDecodeFloat32sInto_RejectsBadLength(t *testing.T) {
	if _, err := decodeFloat32sInto(nil, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for length not divisible by 4")
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0}
	cases := []struct {
		name string
		b    []float32
		want float32
	}{
		{"parallel", []float32{2, 0}, 1},
		{"orthogonal", []float32{0, 3}, 0},
		{"opposite", []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, 0},
		{"length mismatch", []float32{1}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosine(a, tc.b, norm(a))
			if math.Abs(float64(got-tc.want)) > 1e-6 {
				t.Errorf("cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseMigrationVersion(t *testing.T) {
	v, err := parseMigrationVersion("001_create_entries.sql")
	if err != nil {
		t.Fatalf("parseMigrationVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
	if _, err := parseMigrationVersion("bogus.sql"); err == nil {
		t.Error("expected error for missing version prefix")
	}
}
