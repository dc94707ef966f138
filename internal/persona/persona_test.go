package persona

import "testing"

func TestGet(t *testing.T) {
	p, ok := Get("sdr")
	if !ok || p.SystemPrompt == "" {
		t.Fatal("sdr persona should be registered with a prompt")
	}

	if p, ok := Get(" Clinica "); !ok || p.Name != "clinica" {
		t.Fatal("lookup should normalize case and whitespace")
	}

	if _, ok := Get("inexistente"); ok {
		t.Fatal("unknown persona should not resolve")
	}
}

func TestDefault(t *testing.T) {
	if Default().Name != "sdr" {
		t.Fatalf("default persona should be sdr, got %q", Default().Name)
	}
}
