package intent

import (
	"strings"
)

// Render serializes the view as the tagged document injected into the
// agent's prompt. All text content and attribute values are XML-escaped.
func (v *ContextView) Render() string {
	var b strings.Builder

	b.WriteString(`<intent_context id="`)
	b.WriteString(escapeXML(v.IntentID))
	b.WriteString("\">\n")

	if v.Constraints != "" {
		b.WriteString("  <constraints>")
		b.WriteString(escapeXML(v.Constraints))
		b.WriteString("</constraints>\n")
	}
	if v.Scope != "" {
		b.WriteString("  <scope>")
		b.WriteString(escapeXML(v.Scope))
		b.WriteString("</scope>\n")
	}
	if len(v.OwnedScope) > 0 {
		b.WriteString("  <owned_scope>")
		b.WriteString(escapeXML(strings.Join(v.OwnedScope, ", ")))
		b.WriteString("</owned_scope>\n")
	}

	for _, t := range v.Traces {
		b.WriteString(`  <agent_trace req_id="`)
		b.WriteString(escapeXML(t.ReqID))
		b.WriteString(`" file="`)
		b.WriteString(escapeXML(t.File))
		b.WriteString(`" timestamp="`)
		b.WriteString(escapeXML(t.Timestamp))
		b.WriteString(`" mutation_class="`)
		b.WriteString(escapeXML(string(t.MutationClass)))
		b.WriteString("\"/>\n")
	}

	b.WriteString("</intent_context>")
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
