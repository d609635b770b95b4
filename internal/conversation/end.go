package conversation

import (
	"strings"
	"unicode"
)

// endKeywords is the fixed set of words and phrases that signal intent to
// end the conversation.
var endKeywords = []string{
	"goodbye", "bye", "exit", "quit", "end", "stop", "thank you", "thanks",
}

// IsEndSignal reports whether the utterance signals intent to end the
// conversation. Keywords match as whole words (or word sequences, for
// "thank you") over the lower-cased input, so "ok bye" and "I'm done,
// thanks a lot" end the conversation while "Backend Engineer" and
// "weekend" do not.
func IsEndSignal(utterance string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(utterance), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	if len(tokens) == 0 {
		return false
	}
	joined := " " + strings.Join(tokens, " ") + " "
	for _, kw := range endKeywords {
		if strings.Contains(joined, " "+kw+" ") {
			return true
		}
	}
	return false
}
