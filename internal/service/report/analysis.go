package report

import (
	"math"
	"strings"

	"github.com/solacehq/solace/backend/internal/model/chat"
)

// Sentiment summarizes the emotional tone of the user's messages.
type Sentiment struct {
	Overall       string  `json:"overall"`
	PositiveRatio float64 `json:"positiveRatio"`
	NegativeRatio float64 `json:"negativeRatio"`
}

// Analysis aggregates session statistics for reports and analytics.
type Analysis struct {
	DurationMinutes    float64        `json:"sessionDurationMinutes"`
	TotalMessages      int            `json:"totalMessages"`
	UserMessages       int            `json:"userMessages"`
	TherapistMessages  int            `json:"therapistMessages"`
	UserWordCount      int            `json:"userWordCount"`
	TherapistWordCount int            `json:"therapistWordCount"`
	MoodDistribution   map[string]int `json:"moodDistribution"`
	Topics             []string       `json:"topics"`
	Sentiment          Sentiment      `json:"sentiment"`
	EngagementScore    float64        `json:"engagementScore"`
}

var topicKeywords = map[string][]string{
	"anxiety":       {"anxious", "worry", "worried", "nervous", "stress", "panic"},
	"depression":    {"sad", "depressed", "down", "hopeless", "empty"},
	"relationships": {"relationship", "partner", "family", "friend", "love"},
	"work":          {"job", "work", "career", "boss", "colleague", "workplace"},
	"sleep":         {"sleep", "insomnia", "tired", "exhausted", "rest"},
	"health":        {"health", "medical", "doctor", "illness", "pain"},
	"self-esteem":   {"confidence", "self-worth", "insecure", "doubt"},
	"trauma":        {"trauma", "abuse", "ptsd", "flashback", "trigger"},
}

var topicOrder = []string{
	"anxiety", "depression", "relationships", "work", "sleep", "health", "self-esteem", "trauma",
}

var positiveWords = map[string]bool{
	"happy": true, "good": true, "great": true, "wonderful": true, "excellent": true,
	"better": true, "progress": true, "hopeful": true, "positive": true, "excited": true,
	"grateful": true, "thankful": true, "peaceful": true,
}

var negativeWords = map[string]bool{
	"sad": true, "bad": true, "terrible": true, "awful": true, "worried": true,
	"anxious": true, "depressed": true, "angry": true, "frustrated": true,
	"hopeless": true, "lonely": true, "scared": true, "upset": true,
}

// Analyze computes the statistics for one session transcript.
func Analyze(messages []chat.Message) Analysis {
	var user, therapist []chat.Message
	for _, msg := range messages {
		if msg.IsUser {
			user = append(user, msg)
		} else {
			therapist = append(therapist, msg)
		}
	}

	duration := 0.0
	if len(messages) > 1 {
		duration = messages[len(messages)-1].CreatedAt.Sub(messages[0].CreatedAt).Minutes()
	}

	moods := make(map[string]int)
	for _, msg := range therapist {
		if msg.Mood != "" {
			moods[msg.Mood]++
		}
	}

	return Analysis{
		DurationMinutes:    math.Round(duration*100) / 100,
		TotalMessages:      len(messages),
		UserMessages:       len(user),
		TherapistMessages:  len(therapist),
		UserWordCount:      wordCount(user),
		TherapistWordCount: wordCount(therapist),
		MoodDistribution:   moods,
		Topics:             extractTopics(user),
		Sentiment:          analyzeSentiment(user),
		EngagementScore:    engagementScore(user, therapist),
	}
}

func wordCount(messages []chat.Message) int {
	total := 0
	for _, msg := range messages {
		total += len(strings.Fields(msg.Content))
	}
	return total
}

func extractTopics(messages []chat.Message) []string {
	var builder strings.Builder
	for _, msg := range messages {
		builder.WriteString(strings.ToLower(msg.Content))
		builder.WriteString(" ")
	}
	text := builder.String()

	var detected []string
	for _, topic := range topicOrder {
		for _, keyword := range topicKeywords[topic] {
			if strings.Contains(text, keyword) {
				detected = append(detected, topic)
				break
			}
		}
		if len(detected) == 5 {
			break
		}
	}
	return detected
}

func analyzeSentiment(messages []chat.Message) Sentiment {
	var words []string
	for _, msg := range messages {
		words = append(words, strings.Fields(strings.ToLower(msg.Content))...)
	}
	if len(words) == 0 {
		return Sentiment{Overall: "neutral"}
	}

	positive, negative := 0, 0
	for _, word := range words {
		if positiveWords[word] {
			positive++
		}
		if negativeWords[word] {
			negative++
		}
	}

	positiveRatio := float64(positive) / float64(len(words))
	negativeRatio := float64(negative) / float64(len(words))

	overall := "neutral"
	if positiveRatio > negativeRatio {
		overall = "positive"
	} else if negativeRatio > positiveRatio {
		overall = "negative"
	}

	return Sentiment{
		Overall:       overall,
		PositiveRatio: math.Round(positiveRatio*1000) / 1000,
		NegativeRatio: math.Round(negativeRatio*1000) / 1000,
	}
}

func engagementScore(user, therapist []chat.Message) float64 {
	if len(user) == 0 {
		return 0
	}

	totalLen := 0
	for _, msg := range user {
		totalLen += len(msg.Content)
	}
	avgUserLen := float64(totalLen) / float64(len(user))

	lengthScore := math.Min(avgUserLen/100, 1.0)
	responseScore := math.Min(float64(len(therapist))/float64(len(user)), 1.0)

	return math.Round((lengthScore+responseScore)/2*1000) / 10
}

// EngagementLevel converts the percentage score to a descriptive label.
func EngagementLevel(score float64) string {
	switch {
	case score >= 80:
		return "Very High"
	case score >= 60:
		return "High"
	case score >= 40:
		return "Moderate"
	case score >= 20:
		return "Low"
	default:
		return "Very Low"
	}
}
