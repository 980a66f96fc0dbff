package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

type validated struct {
	Port int `yaml:"port"`
}

func (v *validated) Validate() error {
	if v.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDecode_ExpandsEnv(t *testing.T) {
	t.Setenv("VISTRACK_TEST_TOKEN", "s3cret")
	var s sample
	if err := Decode([]byte("name: app\ntoken: ${VISTRACK_TEST_TOKEN}\n"), &s); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Token != "s3cret" {
		t.Errorf("token = %q", s.Token)
	}
}

func TestDecode_KeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 8080}
	if err := Decode([]byte("name: override\n"), &s); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Name != "override" || s.Port != 8080 {
		t.Errorf("sample = %+v", s)
	}
}

func TestDecode_Validates(t *testing.T) {
	var v validated
	err := Decode([]byte("port: 0\n"), &v)
	if err == nil || !strings.Contains(err.Error(), "port must be positive") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad(t *testing.T) {
	var s sample
	if err := Load(writeFile(t, "port: 9000\n"), &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 9000 {
		t.Errorf("port = %d", s.Port)
	}

	if err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &s); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
	if err := Load(writeFile(t, ": : {{"), &s); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	fallback := writeFile(t, "name: fallback\n")
	var s sample
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"), fallback, &s); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if s.Name != "fallback" {
		t.Errorf("name = %q", s.Name)
	}
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"), "", &s); err == nil {
		t.Error("expected error without fallback")
	}
}

func TestMustLoad_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	var s sample
	MustLoad(filepath.Join(t.TempDir(), "nope.yaml"), &s)
}
