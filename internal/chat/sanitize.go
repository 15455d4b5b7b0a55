package chat

import "strings"

// StripEmphasis removes the double-asterisk and double-underscore markers
// the model sometimes emits despite the prompt. Single markers survive.
// Removal repeats until neither marker is left, so "*__*" cannot come back
// as "**" and the function is idempotent.
func StripEmphasis(s string) string {
	for strings.Contains(s, "**") || strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "**", "")
		s = strings.ReplaceAll(s, "__", "")
	}
	return s
}
