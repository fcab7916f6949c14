package mood

import "strings"

// Mood labels the assistant's expressive state attached to every response.
type Mood string

const (
	Idle      Mood = "idle"
	Listening Mood = "listening"
	Speaking  Mood = "speaking"
	Thinking  Mood = "thinking"
	Happy     Mood = "happy"
	Concerned Mood = "concerned"
)

// Marker is the delimiter cloud models are instructed to append, e.g.
// "I hear you.\nMOOD: happy".
const Marker = "MOOD:"

var positiveKeywords = []string{
	"happy", "good", "great", "wonderful", "excellent", "progress", "strength",
}

var negativeKeywords = []string{
	"sad", "bad", "difficult", "challenging", "worried", "anxious", "concern",
}

var reflectiveKeywords = []string{
	"think", "consider", "reflect", "analyze", "explore", "examine",
}

// Parse validates a raw mood token against the closed set, case-insensitively.
func Parse(raw string) (Mood, bool) {
	switch Mood(strings.ToLower(strings.TrimSpace(raw))) {
	case Idle:
		return Idle, true
	case Listening:
		return Listening, true
	case Speaking:
		return Speaking, true
	case Thinking:
		return Thinking, true
	case Happy:
		return Happy, true
	case Concerned:
		return Concerned, true
	default:
		return "", false
	}
}

// Extract splits an explicit mood marker off the raw model output and returns
// the cleaned response text with a validated mood. When the marker is missing
// or carries an out-of-set token, the mood falls back to the keyword
// heuristic over the response and the original user message.
func Extract(raw, userMessage string) (string, Mood) {
	if idx := strings.Index(raw, Marker); idx >= 0 {
		text := strings.TrimSpace(raw[:idx])
		token := raw[idx+len(Marker):]
		if m, ok := Parse(token); ok {
			return text, m
		}
		return text, Infer(text, userMessage)
	}

	text := strings.TrimSpace(raw)
	return text, Infer(text, userMessage)
}

// Infer derives a safety-net mood label from keyword counts. Reflective hits
// are counted in the response only; positive/negative hits count once per
// keyword found in either the response or the user message. Reflective wins
// at two or more hits, then positive versus negative majority, then idle.
func Infer(responseText, userMessage string) Mood {
	response := strings.ToLower(responseText)
	user := strings.ToLower(userMessage)

	positive := countHits(positiveKeywords, response, user)
	negative := countHits(negativeKeywords, response, user)
	reflective := countHits(reflectiveKeywords, response)

	switch {
	case reflective >= 2:
		return Thinking
	case positive > negative:
		return Happy
	case negative > positive:
		return Concerned
	default:
		return Idle
	}
}

func countHits(keywords []string, texts ...string) int {
	count := 0
	for _, word := range keywords {
		for _, text := range texts {
			if strings.Contains(text, word) {
				count++
				break
			}
		}
	}
	return count
}
