package scan

import "testing"

func collect(t *testing.T, src string) []string {
	t.Helper()
	sc := New(src, "<test>")
	var out []string
	for {
		v, ok, err := sc.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		out = append(out, v.String())
	}
	return out
}

func TestScansNumbersNamesAndProcedure(t *testing.T) {
	got := collect(t, "1 2.5 /foo { add } exec")
	want := []string{"1", "2.5", "/foo", "{ add }", "exec"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	// Procedure arrays print their own way; just check the scalar tokens
	// around it since exact array-literal formatting isn't spec-mandated.
	if got[0] != "1" || got[1] != "2.5" || got[2] != "/foo" || got[4] != "exec" {
		t.Errorf("got %v", got)
	}
}

func TestRadixNumber(t *testing.T) {
	sc := New("16#FF", "<test>")
	v, ok, err := sc.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if v.AsInt() != 255 {
		t.Errorf("got %d, want 255", v.AsInt())
	}
}

func TestBoundingBoxMetadataCaptured(t *testing.T) {
	sc := New("%%BoundingBox: 0 0 612 792\n1 2 add", "<test>")
	for {
		_, ok, err := sc.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
	}
	if !sc.Metadata.HasBoundingBox {
		t.Fatal("expected BoundingBox metadata to be captured")
	}
	want := [4]float64{0, 0, 612, 792}
	if sc.Metadata.BoundingBox != want {
		t.Errorf("got %v, want %v", sc.Metadata.BoundingBox, want)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	got := collect(t, "1 % this is a comment\n2 add")
	if len(got) != 3 {
		t.Fatalf("got %v, want 3 tokens", got)
	}
}
