package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/solacehq/solace/backend/internal/model/chat"
	"github.com/solacehq/solace/backend/internal/service/ai"
)

// Interviewer is one selectable clinical interviewer persona.
type Interviewer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Voice       string `json:"voice"`
	Personality string `json:"personality"`
	greeting    string
}

var interviewers = []Interviewer{
	{
		ID:          "sarah",
		Name:        "Sarah",
		Description: "An empathic, compassionate clinical psychologist with over 30 years of experience, specializing in trauma, anxiety disorders, and family therapy.",
		Voice:       "alloy",
		Personality: "warm",
		greeting:    "Hello, I'm Sarah. Thank you for taking the time to talk with me today. We'll go through a short structured interview so I can understand how you've been doing. There are no right or wrong answers. To begin: how are you feeling today?",
	},
	{
		ID:          "aaron",
		Name:        "Aaron",
		Description: "A tough minded clinical psychologist with over 15 years of experience, specializing in stress, trauma, and high-performance demands, with a background as a military officer.",
		Voice:       "onyx",
		Personality: "professional",
		greeting:    "Hello, I'm Aaron. We're going to work through a structured interview together. I'll ask direct questions and I'd like direct answers. Let's start: how are you feeling today?",
	},
}

// ResolveInterviewer returns the persona for id, defaulting to Sarah.
func ResolveInterviewer(id string) Interviewer {
	for _, iv := range interviewers {
		if strings.EqualFold(iv.ID, id) {
			return iv
		}
	}
	return interviewers[0]
}

// Interviewers lists the selectable personas.
func Interviewers() []Interviewer {
	out := make([]Interviewer, len(interviewers))
	copy(out, interviewers)
	return out
}

// QuestionSource supplies the structured question sequence. Question is
// asked with a zero-based index and reports false once the sequence is
// exhausted.
type QuestionSource interface {
	Total() int
	Question(n int) (string, bool)
}

// StaticBank is the built-in structured interview question sequence.
type StaticBank []string

func (b StaticBank) Total() int { return len(b) }

func (b StaticBank) Question(n int) (string, bool) {
	if n < 0 || n >= len(b) {
		return "", false
	}
	return b[n], true
}

// DefaultBank covers mood, sleep, relationships, stress and coping in a
// fixed clinical ordering.
var DefaultBank = StaticBank{
	"How would you describe your mood over the past two weeks?",
	"Have you noticed any changes in your sleep patterns recently?",
	"How is your appetite, and have you noticed any changes in it?",
	"How would you describe your energy levels during a typical day?",
	"Are there activities you used to enjoy that you no longer find enjoyable?",
	"How would you describe your relationships with the people closest to you?",
	"Do you feel supported by your family or friends when things get difficult?",
	"What are the biggest sources of stress in your life right now?",
	"How do you usually cope when you feel overwhelmed?",
	"Have you experienced any events recently that felt traumatic or deeply upsetting?",
	"Do you ever feel anxious or on edge without a clear reason?",
	"How do you feel about yourself most days?",
	"Have you had any thoughts of harming yourself or that life isn't worth living?",
	"What would you most like to change about your life right now?",
	"Is there anything else you feel is important for me to understand about you?",
}

// Generator abstracts the response pipeline so follow-up phrasing can be
// produced by the same fallback chain that powers chat.
type Generator interface {
	Generate(ctx context.Context, pc *ai.PromptContext) ai.Result
}

// Service drives a structured clinical interview: a fixed question
// sequence with generated empathetic bridges between questions, and a
// clinical report once the sequence is exhausted.
type Service struct {
	source QuestionSource
	gen    Generator
}

// NewService wires the question source and follow-up generator. A nil
// source selects the built-in bank; a nil generator produces plain
// questions without bridges.
func NewService(source QuestionSource, gen Generator) *Service {
	if source == nil {
		source = DefaultBank
	}
	return &Service{source: source, gen: gen}
}

// TotalQuestions reports the length of the interview sequence.
func (s *Service) TotalQuestions() int { return s.source.Total() }

// Start returns the opening message for the chosen interviewer.
func (s *Service) Start(interviewerID string) (Interviewer, string) {
	iv := ResolveInterviewer(interviewerID)
	return iv, iv.greeting
}

// Exchange is one interview step as returned to the caller.
type Exchange struct {
	Message        string `json:"message"`
	QuestionNumber int    `json:"questionCount"`
	TotalQuestions int    `json:"totalQuestions"`
	Complete       bool   `json:"isComplete"`
}

// Continue advances the interview with the user's latest answer. The
// question position is derived from the number of interviewer messages in
// the history, so the caller only has to persist the transcript.
func (s *Service) Continue(ctx context.Context, userMessage string, history []chat.Message, interviewerID string) *Exchange {
	iv := ResolveInterviewer(interviewerID)

	asked := 0
	for _, msg := range history {
		if !msg.IsUser {
			asked++
		}
	}

	// The greeting counts as the first question.
	next := asked - 1
	if next < 0 {
		next = 0
	}

	question, ok := s.source.Question(next)
	if !ok {
		return &Exchange{
			Message:        s.Report(append(history, chat.Message{Content: userMessage, IsUser: true})),
			QuestionNumber: asked,
			TotalQuestions: s.source.Total(),
			Complete:       true,
		}
	}

	message := question
	if bridge := s.bridge(ctx, userMessage, history, iv); bridge != "" {
		message = bridge + "\n\n" + question
	}

	return &Exchange{
		Message:        message,
		QuestionNumber: asked + 1,
		TotalQuestions: s.source.Total(),
		Complete:       false,
	}
}

// bridge produces a short empathetic acknowledgment of the user's answer.
func (s *Service) bridge(ctx context.Context, userMessage string, history []chat.Message, iv Interviewer) string {
	if s.gen == nil {
		return "Thank you for sharing that with me."
	}

	result := s.gen.Generate(ctx, &ai.PromptContext{
		UserMessage: userMessage,
		History:     ai.BuildTurns(history, 3),
		Personality: iv.Personality,
	})
	return firstSentence(result.Text)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return text[:i+1]
		}
	}
	return text
}

// Report produces the clinical report text for a finished interview.
func (s *Service) Report(messages []chat.Message) string {
	answers := 0
	for _, msg := range messages {
		if msg.IsUser {
			answers++
		}
	}

	var b strings.Builder
	b.WriteString("Clinical Interview Report\n\n")
	b.WriteString("Interview Summary:\n")
	fmt.Fprintf(&b, "This interview consisted of %d question-answer exchanges.\n\n", answers)
	b.WriteString("Key Points:\n")
	b.WriteString("- The patient participated in a structured clinical interview\n")
	b.WriteString("- Responses were recorded for analysis\n")
	b.WriteString("- Topics covered mood, sleep, relationships, stress and coping\n\n")
	b.WriteString("Recommendations:\n")
	b.WriteString("- Consider professional consultation for detailed clinical assessment\n")
	b.WriteString("- This report is for educational purposes only\n")
	b.WriteString("- Not a substitute for professional medical advice\n")
	return b.String()
}
