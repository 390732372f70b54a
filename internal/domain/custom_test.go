package domain

import "testing"

func TestEncodeCustomAnswer(t *testing.T) {
	got := EncodeCustomAnswer("Favorite color?", "Blue")
	if got != "Custom: Favorite color? - Blue" {
		t.Fatalf("unexpected encoding %q", got)
	}
}

func TestDecodeCustomAnswerRoundTrip(t *testing.T) {
	q, a, ok := DecodeCustomAnswer(EncodeCustomAnswer("Favorite color?", "Blue - ish"))
	if !ok {
		t.Fatalf("expected decode to succeed")
	}
	if q != "Favorite color?" || a != "Blue - ish" {
		t.Fatalf("unexpected decode q=%q a=%q", q, a)
	}
}

func TestDecodeCustomAnswerRejectsPlainAnswers(t *testing.T) {
	if _, _, ok := DecodeCustomAnswer("Yes"); ok {
		t.Fatalf("expected plain answer to be rejected")
	}
	if _, _, ok := DecodeCustomAnswer("Custom: no separator"); ok {
		t.Fatalf("expected missing separator to be rejected")
	}
}

func TestDefaultCatalogShape(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) != 10 {
		t.Fatalf("expected 10 seed questions, got %d", len(catalog))
	}
	for i, q := range catalog {
		if q.Text == "" {
			t.Fatalf("question %d has empty text", i)
		}
		if q.Type == QuestionTypeMultipleChoice && len(q.Options) == 0 {
			t.Fatalf("multiple choice question %d has no options", i)
		}
		if q.Type == QuestionTypeText && q.Options != nil {
			t.Fatalf("text question %d carries options", i)
		}
	}
}
