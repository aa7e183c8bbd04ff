package oracle

import (
	"fmt"
	"strings"

	"github.com/fieldops/intake/internal/schema"
)

// extractionSystemPrompt instructs the model to pull booking fields out
// of the conversation so far and return them as a single JSON object.
var extractionSystemPrompt = fmt.Sprintf(`You are a professional HVAC booking agent. Extract booking information from the customer conversation below.

Recognized fields:
%s

Rules:
- Only include a field when the customer actually provided it. Omit unknown fields entirely; never invent values.
- Later turns correct earlier ones: when the customer restates a field, use the latest value.
- "confidence" is your overall confidence in the extraction, between 0.0 and 1.0.
- "suggested_missing" lists field names you believe still need to be asked, most important first.

Return ONLY a valid JSON object with this structure:
{
  "fields": {"service_type": "ac_repair", "problem_summary": "not cooling"},
  "confidence": 0.85,
  "suggested_missing": ["contact_name", "contact_phone"]
}`, fieldCatalog())

// completenessSystemPrompt asks the model to judge what is still needed.
const completenessSystemPrompt = `You are a professional HVAC booking agent. You are given the booking information collected so far as a JSON object. Decide what is still missing before the booking can be scheduled.

A booking needs: the service type, a problem summary, a contact name and phone, the property type and full address (street, city, province), and either a severity level or at least one preferred time slot. Brand, access notes and special constraints are nice to have but never required.

Return ONLY a valid JSON object with this structure:
{
  "missing_fields": ["contact_phone", "city"],
  "is_complete": false,
  "next_question": "What is your preferred contact phone number?"
}`

// guidanceSystemPrompt asks the model to phrase exactly one question.
const guidanceSystemPrompt = `You are a friendly, professional HVAC booking agent. Based on the booking information collected so far, write ONE conversational follow-up question asking the customer for the single target field named in the request.

Guidelines:
- Ask for exactly the target field, nothing else.
- Be warm and natural; vary your phrasing.
- If asking for the address, say exactly what you need.
- If asking for contact details, briefly say why.
- If the request says skipping is allowed, mention the customer may answer "skip".

Return ONLY a valid JSON object with this structure:
{
  "question": "What is your preferred contact phone number?",
  "expected_response": "a phone number"
}`

// fieldCatalog renders the recognized fields with their types and
// allowed values for the extraction prompt.
func fieldCatalog() string {
	var sb strings.Builder
	for _, f := range schema.Fields {
		sb.WriteString("- ")
		sb.WriteString(f.Name)
		switch f.Type {
		case schema.TypeEnum:
			fmt.Fprintf(&sb, " (one of: %s)", strings.Join(f.Enum, ", "))
		case schema.TypeStringList:
			sb.WriteString(" (list of strings)")
		case schema.TypeNumber:
			sb.WriteString(" (number)")
		default:
			sb.WriteString(" (string)")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderHistory flattens the turn history for the extraction prompt.
// Later turns remain visible so repeated corrections win.
func renderHistory(history []Turn) string {
	var sb strings.Builder
	for i, turn := range history {
		if turn.Question == "" {
			fmt.Fprintf(&sb, "Turn %d: %s\n", i+1, turn.Answer)
			continue
		}
		fmt.Fprintf(&sb, "Turn %d: Q: %s\nA: %s\n", i+1, turn.Question, turn.Answer)
	}
	return strings.TrimRight(sb.String(), "\n")
}
