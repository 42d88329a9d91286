package risk

import "strings"

// buildPrompt asks the collaborator for a risk verdict and a rephrased text.
// The text handed over is already regex-redacted whenever the detector found
// anything, so the collaborator never sees identifiers the detector could
// catch on its own.
func buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are an AI that ensures differential privacy in student feedback.\n\n")
	b.WriteString("The following text is a student's review of a professor:\n\n")
	b.WriteString("---\n")
	b.WriteString(text)
	b.WriteString("\n---\n\n")
	b.WriteString("Analyze this review for personal or identifying information such as:\n")
	b.WriteString("- Student's name, email, phone number\n")
	b.WriteString("- Schedule, specific dates/times\n")
	b.WriteString("- Project topics, group names\n")
	b.WriteString("- Nationality or other personal identifiers\n")
	b.WriteString("- Unique incidents that could identify the student\n")
	b.WriteString("- Specific grades or scores\n\n")
	b.WriteString("If this review contains such identifying information, set risk_level to \"high\" ")
	b.WriteString("and provide a rephrased version that keeps the general opinion and sentiment but ")
	b.WriteString("removes or generalizes identifying details.\n\n")
	b.WriteString("If the review is already anonymous and safe, set risk_level to \"low\" ")
	b.WriteString("and return the original text as rephrased_text.\n\n")
	b.WriteString("You MUST return ONLY valid JSON in this exact format (no markdown, no code blocks, no additional text):\n")
	b.WriteString(`{"risk_level": "high", "rephrased_text": "the rephrased version here"}`)
	b.WriteString("\n\nor\n\n")
	b.WriteString(`{"risk_level": "low", "rephrased_text": "the original text here"}`)
	b.WriteString("\n")
	return b.String()
}
