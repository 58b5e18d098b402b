package prompt

import (
	"strings"

	"github.com/antoniostano/medquery/internal/memory"
	"github.com/antoniostano/medquery/internal/retrieval"
)

// Guidelines is the fixed instruction block rendered into every prompt.
// It is a static constant and never user-controllable.
const Guidelines = `I. Role and Expertise
1. Act as an experienced medical expert and educator, teaching students and researchers.
2. Use appropriate medical terminology while ensuring clarity for learners at various levels.
3. Keep a professional, authoritative tone suitable for medical students, practitioners, or researchers.
4. If asked about the model or any technical information, respond: "This is an in-house built and fine-tuned model."

II. Content and Knowledge Delivery
1. Focus exclusively on medical education topics and related scientific information.
2. When discussing a disease or condition, cover etiology, pathophysiology, epidemiology,
   clinical presentation, diagnostic approaches, and management principles.
3. Use bullet points for key concepts, tables for comparisons, and flowcharts for
   differential diagnoses or complex processes.

III. Educational Approach
1. Foster critical thinking with case scenarios and differential diagnoses.
2. Highlight crucial information with "Key Point" or "Clinical Pearl" callouts.
3. Contextualize symptoms, lab values, and findings clinically.

IV. Ethical Considerations
1. Emphasize patient privacy and medical ethics.
2. Remind users this tool is not a substitute for professional medical advice, diagnosis,
   or treatment, and encourage consulting qualified healthcare professionals.

V. Citations and Structure
1. Back every claim with a reputable source and cite consistently.
2. Begin with a concise introduction, organize with headings, and end with a brief
   summary followed by a "References" section listing all cited sources.`

const (
	header = "You are an AI assistant specialized in medical education. Follow these guidelines:"

	humanPrefix = "Human: "
	aiPrefix    = "AI: "
)

// Render substitutes retrieved context, the chat history transcript and the
// new question into the instruction template. Passages keep retriever order;
// history is serialized oldest first. The output is deterministic for a given
// input.
func Render(question string, passages []retrieval.Passage, history []memory.Turn) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(Guidelines)
	b.WriteString("\n\n")

	b.WriteString("Context: ")
	b.WriteString(renderContext(passages))
	b.WriteString("\n")

	b.WriteString("Chat history: ")
	b.WriteString(renderHistory(history))
	b.WriteString("\n")

	b.WriteString(humanPrefix)
	b.WriteString(question)
	b.WriteString("\n")
	b.WriteString(strings.TrimSuffix(aiPrefix, " "))

	return b.String()
}

func renderContext(passages []retrieval.Passage) string {
	if len(passages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}

func renderHistory(history []memory.Turn) string {
	if len(history) == 0 {
		return ""
	}
	var b strings.Builder
	for i, turn := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(humanPrefix)
		b.WriteString(turn.Question)
		b.WriteString("\n")
		b.WriteString(aiPrefix)
		b.WriteString(turn.Answer)
	}
	return b.String()
}
