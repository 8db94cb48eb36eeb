package reactive

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	rt := NewRuntime()
	var nilAttr *Attr[int]
	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"plain string", "hello", KindPlain},
		{"nil", nil, KindPlain},
		{"nil attr", nilAttr, KindPlain},
		{"attr", New(rt, 1), KindWritable},
		{"collection", NewCollection(rt, []int{1}), KindWritable},
		{"computed", Derive1(rt, New(rt, 1), func(v int) int { return v }), KindReadOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.v).Kind; got != tt.want {
				t.Errorf("Classify kind = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTargetSet(t *testing.T) {
	a := New(NewRuntime(), 0)
	if err := Classify(a).Set("9"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if a.Get() != 9 {
		t.Errorf("Get() = %d, want 9", a.Get())
	}
	if err := Classify("plain").Set(1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("plain Set error = %v, want ErrReadOnly", err)
	}
}

func TestTargetWatch(t *testing.T) {
	a := New(NewRuntime(), "x")
	var seen []any
	stop := Classify(a).Watch(func(v any) { seen = append(seen, v) })
	a.Set("y")
	stop()
	a.Set("z")
	if len(seen) != 2 || seen[0] != "x" || seen[1] != "y" {
		t.Errorf("seen = %v, want [x y]", seen)
	}

	var plain []any
	Classify(5).Watch(func(v any) { plain = append(plain, v) })()
	if len(plain) != 1 || plain[0] != 5 {
		t.Errorf("plain watch = %v, want [5]", plain)
	}
}
