package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/mandal/pkg/board"
)

func TestLoad_FreshStateYieldsDefaults(t *testing.T) {
	p := NewPersistence(NewMemoryKV())
	got := p.Load()
	if diff := cmp.Diff(board.New(), got); diff != "" {
		t.Errorf("fresh load mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoad_GoalSurvivesReload(t *testing.T) {
	kv := NewMemoryKV()
	p := NewPersistence(kv)

	b := p.Load()
	if err := b.SetGoal(2, "Learn Rust"); err != nil {
		t.Fatal(err)
	}
	if err := p.Save(b); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewPersistence(kv).Load()
	want := board.New()
	want.Goals[2] = "Learn Rust"
	if diff := cmp.Diff(want, reloaded); diff != "" {
		t.Errorf("reload mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NotJSONRemovesKey(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set(StorageKey, "not json")

	got := NewPersistence(kv).Load()
	if diff := cmp.Diff(board.New(), got); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
	if _, ok, _ := kv.Get(StorageKey); ok {
		t.Error("malformed blob should have been removed")
	}
}

func TestLoad_NonObjectDocumentsRemoved(t *testing.T) {
	for _, raw := range []string{"null", "42", `"text"`, "[1,2,3]", "{"} {
		kv := NewMemoryKV()
		_ = kv.Set(StorageKey, raw)
		_ = NewPersistence(kv).Load()
		if _, ok, _ := kv.Get(StorageKey); ok {
			t.Errorf("%q: expected key removed", raw)
		}
	}
}

func TestLoad_WellFormedDocumentKept(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set(StorageKey, `{"title":"x"}`)
	b := NewPersistence(kv).Load()
	if b.Title != "x" {
		t.Errorf("expected title x, got %q", b.Title)
	}
	if _, ok, _ := kv.Get(StorageKey); !ok {
		t.Error("valid document must stay in storage")
	}
}

func TestDecode_FieldCoercion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, b *board.Board)
	}{
		{
			name:  "missing fields",
			input: `{}`,
			check: func(t *testing.T, b *board.Board) {
				if *b != *board.New() {
					t.Errorf("expected defaults, got %+v", b)
				}
			},
		},
		{
			name:  "title wrong type",
			input: `{"title": 12}`,
			check: func(t *testing.T, b *board.Board) {
				if b.Title != "" {
					t.Errorf("expected empty title, got %q", b.Title)
				}
			},
		},
		{
			name:  "goals not an array",
			input: `{"goals": "a,b,c"}`,
			check: func(t *testing.T, b *board.Board) {
				if b.Goals != [board.Size]string{} {
					t.Errorf("expected default goals, got %v", b.Goals)
				}
			},
		},
		{
			name:  "goals oversized",
			input: `{"goals": ["0","1","2","3","4","5","6","7","8","9"]}`,
			check: func(t *testing.T, b *board.Board) {
				if b.Goals[7] != "7" {
					t.Errorf("expected truncation to 8, got %v", b.Goals)
				}
			},
		},
		{
			name:  "goals short are padded",
			input: `{"goals": ["a","b"]}`,
			check: func(t *testing.T, b *board.Board) {
				want := [board.Size]string{"a", "b"}
				if b.Goals != want {
					t.Errorf("got %v", b.Goals)
				}
			},
		},
		{
			name:  "goals with non-string entries",
			input: `{"goals": ["a", 3, null, {"x":1}, "e"]}`,
			check: func(t *testing.T, b *board.Board) {
				want := [board.Size]string{"a", "", "", "", "e"}
				if b.Goals != want {
					t.Errorf("got %v", b.Goals)
				}
			},
		},
		{
			name:  "details rows coerced",
			input: `{"details": [["a","b"], "oops", null, ["1","2","3","4","5","6","7","8","9"]]}`,
			check: func(t *testing.T, b *board.Board) {
				if b.Details[0][0] != "a" || b.Details[0][1] != "b" || b.Details[0][2] != "" {
					t.Errorf("row 0: %v", b.Details[0])
				}
				if b.Details[1] != [board.Size]string{} || b.Details[2] != [board.Size]string{} {
					t.Errorf("non-array rows should be empty: %v %v", b.Details[1], b.Details[2])
				}
				if b.Details[3][7] != "8" {
					t.Errorf("row 3 should be truncated to 8: %v", b.Details[3])
				}
			},
		},
		{
			name:  "details oversized outer",
			input: `{"details": [[],[],[],[],[],[],[],["last"],["extra"]]}`,
			check: func(t *testing.T, b *board.Board) {
				if b.Details[7][0] != "last" {
					t.Errorf("row 7: %v", b.Details[7])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			tt.check(t, b)
		})
	}
}

func TestDecode_ActiveGoal(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`3.0`, 3},
		{`-1`, 0},
		{`99`, 7},
		{`1e300`, 7},
		{`2.5`, 0},
		{`"5"`, 0},
		{`true`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		b, err := Decode([]byte(fmt.Sprintf(`{"activeGoal": %s}`, tt.raw)))
		if err != nil {
			t.Fatalf("%s: %v", tt.raw, err)
		}
		if b.ActiveGoal != tt.want {
			t.Errorf("activeGoal %s: got %d, want %d", tt.raw, b.ActiveGoal, tt.want)
		}
	}
}

func TestDecode_MalformedIsTyped(t *testing.T) {
	_, err := Decode([]byte("not json"))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestEncode_WireShape(t *testing.T) {
	b := board.New()
	b.Title = "T"
	b.ActiveGoal = 4
	data, err := Encode(b)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"title", "goals", "details", "activeGoal"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if len(raw["goals"].([]any)) != board.Size {
		t.Errorf("goals length: %s", data)
	}
}

// jsonValue draws an arbitrary JSON value of bounded depth.
func jsonValue(depth int) *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		kinds := 5
		if depth > 0 {
			kinds = 7
		}
		switch rapid.IntRange(0, kinds-1).Draw(t, "kind") {
		case 0:
			return nil
		case 1:
			return rapid.Bool().Draw(t, "bool")
		case 2:
			return rapid.Float64().Draw(t, "float")
		case 3:
			return rapid.IntRange(-20, 20).Draw(t, "int")
		case 4:
			return rapid.String().Draw(t, "string")
		case 5:
			return rapid.SliceOfN(jsonValue(depth-1), 0, 12).Draw(t, "array")
		default:
			return rapid.MapOfN(rapid.SampledFrom([]string{"title", "goals", "details", "activeGoal", "x"}), jsonValue(depth-1), 0, 3).Draw(t, "object")
		}
	})
}

func TestLoad_ShapeInvariantProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := map[string]any{}
		for _, key := range []string{"title", "goals", "details", "activeGoal"} {
			if rapid.Bool().Draw(t, "has_"+key) {
				doc[key] = jsonValue(2).Draw(t, key)
			}
		}
		data, err := json.Marshal(doc)
		if err != nil {
			t.Skip("unencodable value")
		}

		kv := NewMemoryKV()
		_ = kv.Set(StorageKey, string(data))
		b := NewPersistence(kv).Load()

		if b.ActiveGoal < 0 || b.ActiveGoal > board.Size-1 {
			t.Fatalf("activeGoal out of range: %d (input %s)", b.ActiveGoal, data)
		}
		if len(b.Goals) != board.Size || len(b.Details) != board.Size {
			t.Fatalf("shape broken for %s", data)
		}
	})
}

func boardGen() *rapid.Generator[*board.Board] {
	text := rapid.StringMatching(`[a-z가-힣 ]{0,12}`)
	return rapid.Custom(func(t *rapid.T) *board.Board {
		b := board.New()
		b.SetTitle(text.Draw(t, "title"))
		for i := 0; i < board.Size; i++ {
			_ = b.SetGoal(i, text.Draw(t, "goal"))
			for j := 0; j < board.Size; j++ {
				_ = b.SetDetail(i, j, text.Draw(t, "detail"))
			}
		}
		_ = b.SelectGoal(rapid.IntRange(0, board.Size-1).Draw(t, "active"))
		return b
	})
}

func TestSaveLoad_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := boardGen().Draw(t, "board")
		p := NewPersistence(NewMemoryKV())
		if err := p.Save(b); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(b, p.Load()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

type failingKV struct {
	*MemoryKV
	setErr error
	getErr error
}

func (f failingKV) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryKV.Set(key, value)
}

func (f failingKV) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryKV.Get(key)
}

func TestSave_PropagatesWriteFailure(t *testing.T) {
	quota := errors.New("quota exceeded")
	p := NewPersistence(failingKV{MemoryKV: NewMemoryKV(), setErr: quota})
	err := p.Save(board.New())
	if !errors.Is(err, quota) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if !strings.Contains(err.Error(), "saving board") {
		t.Errorf("expected wrapped context, got %v", err)
	}
}

func TestLoad_ReadFailureYieldsDefaults(t *testing.T) {
	p := NewPersistence(failingKV{MemoryKV: NewMemoryKV(), getErr: errors.New("io")})
	if *p.Load() != *board.New() {
		t.Error("expected defaults on read failure")
	}
}

func TestReset_RemovesStoredBoard(t *testing.T) {
	kv := NewMemoryKV()
	p := NewPersistence(kv)
	_ = p.Save(board.New())
	if err := p.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get(StorageKey); ok {
		t.Error("expected key removed")
	}
}
