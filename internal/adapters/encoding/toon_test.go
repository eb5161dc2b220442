package encoding

import "testing"

type sampleRecord struct {
	Project     string `json:"project"`
	Environment string `json:"environment"`
	Transitive  bool   `json:"transitive"`
}

func TestEncoder_JSONRoundTrip(t *testing.T) {
	e := NewEncoder()
	in := sampleRecord{Project: "vpc", Environment: "prod", Transitive: true}

	data, err := e.EncodeJSON(in)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	var out sampleRecord
	if err := e.DecodeJSON(data, &out); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if out != in {
		t.Errorf("DecodeJSON roundtrip = %+v, want %+v", out, in)
	}
}

func TestEncoder_TOONRoundTrip(t *testing.T) {
	e := NewEncoder()
	in := []sampleRecord{
		{Project: "vpc", Environment: "prod"},
		{Project: "api", Environment: "prod", Transitive: true},
	}

	data, err := e.EncodeTOON(in)
	if err != nil {
		t.Fatalf("EncodeTOON: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("EncodeTOON returned empty output")
	}

	var out []sampleRecord
	if err := e.DecodeTOON(data, &out); err != nil {
		t.Fatalf("DecodeTOON: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("DecodeTOON roundtrip length = %d, want %d", len(out), len(in))
	}
}
