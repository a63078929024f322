// Package chat holds helpers shared by the chat platform adapters.
package chat

import "unicode/utf8"

// Split cuts text into chunks of at most maxLen characters, breaking after
// a newline in the second half of a chunk when there is one.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			chunks = append(chunks, string(runes))
			break
		}
		cut := maxLen
		if idx := lastNewline(runes[:maxLen]); idx > maxLen/2 {
			cut = idx + 1
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return chunks
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
