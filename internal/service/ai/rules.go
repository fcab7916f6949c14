package ai

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/solacehq/solace/backend/internal/model/personality"
)

// CrisisMessage is the fixed, non-randomized safety response returned
// whenever a crisis keyword is detected, regardless of personality.
const CrisisMessage = "I'm very concerned about what you're sharing. Your life has value, and there are people who care about you. Please reach out to a crisis helpline immediately - you can call 988 (Suicide & Crisis Lifeline) or 911. You don't have to face this alone."

var crisisKeywords = []string{
	"kill myself", "suicide", "want to die", "end it all", "no reason to live",
}

var fallbackResponses = map[string][]string{
	"warm": {
		"I hear you, and I want you to know that what you're feeling is completely valid. Can you tell me more about what's been weighing on your mind?",
		"Thank you for sharing that with me. It takes courage to open up. How has this been affecting your daily life?",
		"I'm here with you through this. What do you think might help you feel more supported right now?",
		"Your feelings are important, and I'm grateful you trust me with them. What would you like to explore together?",
		"That sounds really challenging. You're not alone in feeling this way. What resources or support do you have in your life?",
	},
	"professional": {
		"I understand. Let's examine this situation more closely. What specific aspects concern you most?",
		"Can you identify any patterns or triggers related to what you've described?",
		"From a therapeutic perspective, what coping strategies have you tried before?",
		"Let's work together to develop some concrete steps forward. What are your primary goals?",
		"What evidence do you have that supports or challenges these thoughts you're experiencing?",
	},
	"gentle": {
		"Take your time. There's no rush here. How would you like to begin exploring this?",
		"I can sense this is difficult to talk about. We can go at whatever pace feels comfortable for you.",
		"Your experience matters deeply. What feels most important for you to share right now?",
		"It's okay to feel uncertain. What small step forward might feel manageable today?",
		"You're being so brave by being here. What would feel most helpful for you in this moment?",
	},
	"encouraging": {
		"You've already taken an important step by reaching out. What strengths do you see in yourself?",
		"I believe in your ability to work through this. What progress have you made recently?",
		"You have more resilience than you might realize. How have you overcome challenges before?",
		"This conversation shows your commitment to growth. What motivates you to keep moving forward?",
		"You're capable of positive change. What would that change look like for you?",
	},
}

// RuleProvider is the terminal adapter: it has no external dependency and
// cannot fail. The random source is injectable so tests can pin selection.
type RuleProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRuleProvider builds the terminal adapter. A nil rng gets a time-seeded one.
func NewRuleProvider(rng *rand.Rand) *RuleProvider {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RuleProvider{rng: rng}
}

func (p *RuleProvider) Name() string { return "rules" }

// Attempt never returns an error. The crisis check runs before any
// personality lookup so safety messaging holds even as a last resort.
func (p *RuleProvider) Attempt(_ context.Context, pc *PromptContext) (string, error) {
	message := strings.ToLower(pc.UserMessage)
	for _, keyword := range crisisKeywords {
		if strings.Contains(message, keyword) {
			return CrisisMessage, nil
		}
	}

	variants, ok := fallbackResponses[pc.Personality]
	if !ok {
		variants = fallbackResponses[personality.DefaultKey]
	}

	p.mu.Lock()
	idx := p.rng.Intn(len(variants))
	p.mu.Unlock()

	return variants[idx], nil
}
