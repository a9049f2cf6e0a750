package wrap

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestValidName(t *testing.T) {
	valid := []string{"HELLO", "hello", "_HELLO", "HELLO1", "HELLO1_WORLD", "____"}
	for _, name := range valid {
		if !ValidName(name) {
			t.Errorf("ValidName(%q) = false, want true", name)
		}
	}

	invalid := []string{"", "1HELLO", "@HELLO", "HELL@", "FOO BAR", "FOO-BAR"}
	for _, name := range invalid {
		if ValidName(name) {
			t.Errorf("ValidName(%q) = true, want false", name)
		}
	}
}

func TestParseVariable(t *testing.T) {
	v, err := ParseVariable("ENV=value", false)
	if err != nil {
		t.Fatalf("ParseVariable() error: %v", err)
	}
	want := Variable{Name: "ENV", Value: "value"}
	if v != want {
		t.Errorf("ParseVariable() = %+v, want %+v", v, want)
	}

	// Values may themselves contain '='.
	v, err = ParseVariable("OPTS=a=b", true)
	if err != nil {
		t.Fatalf("ParseVariable() error: %v", err)
	}
	if v.Value != "a=b" || !v.Append {
		t.Errorf("ParseVariable() = %+v, want Value=a=b Append=true", v)
	}

	if _, err := ParseVariable("ENVvalue", false); err == nil {
		t.Error("ParseVariable() without separator: want error")
	}
	if _, err := ParseVariable("1BAD=x", false); err == nil {
		t.Error("ParseVariable() with invalid name: want error")
	}
}

func TestSpecSaveLoad(t *testing.T) {
	spec := &Spec{
		Target:     "/usr/bin/foo",
		ArgsBefore: []string{"--verbose", "--color=auto"},
		ArgsAfter:  []string{"--"},
		Env: []Variable{
			{Name: "FOO", Value: "bar"},
			{Name: "PATH", Value: "/opt/x/bin", Append: true},
		},
		NoHooks: true,
	}

	path := filepath.Join(t.TempDir(), "specs", "usr", "bin", "foo.toml")
	if err := spec.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(got, spec) {
		t.Errorf("Load() = %+v, want %+v", got, spec)
	}
}

func TestLoadMissingIsNotWrapped(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, ErrNotWrapped) {
		t.Errorf("Load() on missing file: got %v, want ErrNotWrapped", err)
	}
}

func TestSpecEmpty(t *testing.T) {
	if !(&Spec{Target: "/usr/bin/foo"}).Empty() {
		t.Error("Empty() = false for spec with no injections")
	}
	if (&Spec{Env: []Variable{{Name: "A", Value: "b"}}}).Empty() {
		t.Error("Empty() = true for spec with env injection")
	}
}
