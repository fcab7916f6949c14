package mood

import "testing"

func TestExtractMarker(t *testing.T) {
	text, m := Extract("I hear you.\nMOOD: happy", "")
	if text != "I hear you." {
		t.Fatalf("unexpected text: %q", text)
	}
	if m != Happy {
		t.Fatalf("expected happy, got %s", m)
	}
}

func TestExtractMarkerCaseInsensitive(t *testing.T) {
	_, m := Extract("Take a breath.\nMOOD: Concerned", "")
	if m != Concerned {
		t.Fatalf("expected concerned, got %s", m)
	}
}

func TestExtractInvalidMarkerFallsBackToHeuristic(t *testing.T) {
	text, m := Extract("That is wonderful progress.\nMOOD: excited", "")
	if text != "That is wonderful progress." {
		t.Fatalf("unexpected text: %q", text)
	}
	if m != Happy {
		t.Fatalf("expected heuristic happy, got %s", m)
	}
}

func TestInferReflectiveTakesPrecedence(t *testing.T) {
	m := Infer("Let's think about this and consider what feels good.", "")
	if m != Thinking {
		t.Fatalf("expected thinking, got %s", m)
	}
}

func TestInferNegativeFromUserMessage(t *testing.T) {
	m := Infer("Tell me more about that.", "I have been so anxious and sad lately")
	if m != Concerned {
		t.Fatalf("expected concerned, got %s", m)
	}
}

func TestInferBalancedDefaultsToIdle(t *testing.T) {
	m := Infer("Tell me more about your week.", "it was a week")
	if m != Idle {
		t.Fatalf("expected idle, got %s", m)
	}
}

func TestParseRejectsUnknownToken(t *testing.T) {
	if _, ok := Parse("ecstatic"); ok {
		t.Fatal("expected rejection of out-of-set mood")
	}
	if m, ok := Parse("  THINKING "); !ok || m != Thinking {
		t.Fatalf("expected thinking, got %s ok=%v", m, ok)
	}
}
