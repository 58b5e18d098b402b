package prompt

import (
	"strings"
	"testing"

	"github.com/antoniostano/medquery/internal/memory"
	"github.com/antoniostano/medquery/internal/retrieval"
)

func TestRenderIsDeterministic(t *testing.T) {
	passages := []retrieval.Passage{{Text: "p1"}, {Text: "p2"}}
	history := []memory.Turn{{Question: "q1", Answer: "a1"}}

	first := Render("question", passages, history)
	second := Render("question", passages, history)
	if first != second {
		t.Fatalf("Render() is not deterministic")
	}
}

func TestRenderContainsAllSections(t *testing.T) {
	passages := []retrieval.Passage{{Text: "iron studies"}, {Text: "ferritin levels"}}
	history := []memory.Turn{
		{Question: "what is anemia?", Answer: "low hemoglobin"},
		{Question: "common causes?", Answer: "iron deficiency"},
	}

	got := Render("how is it treated?", passages, history)

	for _, want := range []string{
		Guidelines,
		"Context: iron studies\n\nferritin levels",
		"Human: what is anemia?\nAI: low hemoglobin",
		"Human: common causes?\nAI: iron deficiency",
		"Human: how is it treated?\nAI:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Render() missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderKeepsPassageOrder(t *testing.T) {
	passages := []retrieval.Passage{{Text: "first"}, {Text: "second"}, {Text: "third"}}
	got := Render("q", passages, nil)

	iFirst := strings.Index(got, "first")
	iSecond := strings.Index(got, "second")
	iThird := strings.Index(got, "third")
	if iFirst < 0 || iSecond < 0 || iThird < 0 || iFirst > iSecond || iSecond > iThird {
		t.Fatalf("passages rendered out of retriever order: %d %d %d", iFirst, iSecond, iThird)
	}
}

func TestRenderEmptyContextAndHistory(t *testing.T) {
	got := Render("q", nil, nil)
	if !strings.Contains(got, "Context: \n") {
		t.Fatalf("Render() missing empty context line:\n%s", got)
	}
	if !strings.Contains(got, "Chat history: \n") {
		t.Fatalf("Render() missing empty history line:\n%s", got)
	}
	if !strings.HasSuffix(got, "Human: q\nAI:") {
		t.Fatalf("Render() should end with the new question, got:\n%s", got)
	}
}
