package provider

import (
	"context"
	"errors"
	"testing"
)

// stubProvider implements Provider with fixed responses.
type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *stubProvider) Embed(context.Context, string) ([]float32, error) {
	return []float32{1}, nil
}

func TestRegistryGet(t *testing.T) {
	openai := &stubProvider{name: NameOpenAI}
	gemini := &stubProvider{name: NameGemini}

	reg, err := NewRegistry(openai, gemini)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	got, err := reg.Get(NameOpenAI)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", NameOpenAI, err)
	}
	if got != Provider(openai) {
		t.Errorf("Get(%q) returned wrong provider", NameOpenAI)
	}

	if _, err := reg.Get("anthropic"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownProvider", err)
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	_, err := NewRegistry(&stubProvider{name: NameOpenAI}, &stubProvider{name: NameOpenAI})
	if err == nil {
		t.Fatal("NewRegistry() with duplicate names should fail")
	}
}

func TestRegistryHas(t *testing.T) {
	reg, err := NewRegistry(&stubProvider{name: NameGemini})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if !reg.Has(NameGemini) {
		t.Errorf("Has(%q) = false, want true", NameGemini)
	}
	if reg.Has(NameOpenAI) {
		t.Errorf("Has(%q) = true, want false", NameOpenAI)
	}
}

func TestRegistryNames(t *testing.T) {
	reg, err := NewRegistry(&stubProvider{name: NameOpenAI}, &stubProvider{name: NameGemini})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	names := reg.Names()
	if len(names) != 2 {
		t.Fatalf("Names() returned %d names, want 2", len(names))
	}
	// Sorted order: gemini before openai
	if names[0] != NameGemini || names[1] != NameOpenAI {
		t.Errorf("Names() = %v, want [gemini openai]", names)
	}
}
