package classifier

import "fmt"

// buildPrompt embeds the description together with the closed
// vocabularies and their semantic hints. The model is instructed to
// answer with a bare JSON object.
func buildPrompt(description string) string {
	return fmt.Sprintf(`You are a support ticket classifier.

Return ONLY valid JSON with exactly two fields:
- category: billing | technical | account | general
- priority: low | medium | high | critical

Rules:
- billing → payment, invoice, refund, subscription
- technical → bug, error, crash, broken, slow
- account → login, password, access, permissions
- general → everything else
- critical → system down, data loss, security issue
- high → major feature broken
- medium → partial issue, workaround exists
- low → minor issue or question

Description:
%s

Return ONLY:
{"category": "...", "priority": "..."}`, description)
}
