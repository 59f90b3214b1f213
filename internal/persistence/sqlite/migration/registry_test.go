package migration

import (
	"errors"
	"testing"
)

func TestNewRegistryRejectsInvalidModules(t *testing.T) {
	tests := []struct {
		name    string
		modules []Module
	}{
		{
			name:    "non numeric id",
			modules: []Module{&fakeModule{id: "aa", name: "bad", description: "bad id"}},
		},
		{
			name:    "one digit id",
			modules: []Module{&fakeModule{id: "1", name: "short", description: "short id"}},
		},
		{
			name:    "three digit id",
			modules: []Module{&fakeModule{id: "001", name: "long", description: "long id"}},
		},
		{
			name:    "empty name",
			modules: []Module{&fakeModule{id: "00", name: "", description: "nameless"}},
		},
		{
			name:    "empty description",
			modules: []Module{&fakeModule{id: "00", name: "no_description", description: ""}},
		},
		{
			name:    "duplicate id",
			modules: []Module{newFakeModule("00"), newFakeModule("00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.modules...)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got: %v", err)
			}
		})
	}
}

func TestNewRegistrySortsAscending(t *testing.T) {
	registry, err := NewRegistry(newFakeModule("02"), newFakeModule("00"), newFakeModule("01"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := []string{"00", "01", "02"}
	list := registry.List()
	if len(list) != len(want) {
		t.Fatalf("expected %d modules, got %d", len(want), len(list))
	}
	for i, mod := range list {
		if mod.ID() != want[i] {
			t.Errorf("list[%d]: expected %s, got %s", i, want[i], mod.ID())
		}
	}
}

func TestNewRegistryAllowsEmpty(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(registry.List()) != 0 {
		t.Errorf("expected empty registry, got %d modules", len(registry.List()))
	}
}

func TestRegistryGet(t *testing.T) {
	registry, err := NewRegistry(newFakeModule("00"), newFakeModule("01"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	mod, err := registry.Get("01")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mod.ID() != "01" {
		t.Errorf("expected module 01, got %s", mod.ID())
	}

	if _, err := registry.Get("99"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestRegistryBefore(t *testing.T) {
	registry, err := NewRegistry(newFakeModule("00"), newFakeModule("01"), newFakeModule("02"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	before := registry.Before("02")
	if len(before) != 2 {
		t.Fatalf("expected 2 modules before 02, got %d", len(before))
	}
	if before[0].ID() != "00" || before[1].ID() != "01" {
		t.Errorf("expected [00 01], got [%s %s]", before[0].ID(), before[1].ID())
	}

	if got := registry.Before("00"); len(got) != 0 {
		t.Errorf("expected nothing before 00, got %d modules", len(got))
	}
}
