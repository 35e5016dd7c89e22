// Package content holds the static text shown around the metrics: header
// lyrics, reality-check quotes, escalation messages, the required reading and
// listening lists and the battle plan.
package content

import (
	"math/rand"
	"sync"
	"time"

	"github.com/utopialog/internal/metrics"
)

var Lyrics = []string{
	"The situation we are in at this time, neither a good one, nor is it so unblest.",
	"It can be held that we are in the process of creating a new world.",
	"Welcome to Utopia.",
	"I'm the highest in the room.",
	"Transform with the times, or get left behind.",
	"Create the wave, don't ride it.",
	"Sun is down, freezin' cold.",
	"Lost forever, but we're still together.",
	"Packin' out the stadium, we constructin' the mayhem.",
	"I tried to show 'em, yeah, I tried to show 'em.",
	"See the vision, I'm seein' the vision.",
	"Identify the enemy, then we attack.",
	"If you fall for the games, then you're the one playin'.",
	"Switching lanes, switching gears.",
	"I've been flyin' out of town for some peace of mind.",
}

var RealityChecks = []string{
	"You are 19. Zuckerberg had Facebook at 19. You have excuses.",
	"Nobody cares about your potential. They care about your results.",
	"The ZL1 is driving past you right now. Someone else is driving it.",
	"Sleep is the cousin of death. Wake up.",
	"You analyzed the market? Cute. Now sell something.",
	"Your comfort zone is where dreams go to die.",
	"Mediocrity is a disease. You are showing symptoms.",
	"Do you want to be a boss or a worker? Decide.",
	"Pain is temporary. Being broke is forever if you don't move.",
	"Zero revenue today? Then you are unemployed.",
	"Your ideas are worthless. Your execution is everything.",
}

// Escalation is the message bank for revenue droughts.
var Escalation = metrics.MessageBank{
	Tier1: "Money is moving. Keep the pipeline full.",
	Tier2: []string{
		"Three days without a sale. The market forgot your name.",
		"Revenue is silent. Pick up the phone.",
		"Nobody is coming to buy from you. Go sell.",
	},
	Tier3: "A full week at zero. This is how businesses die quietly.",
	Tier4: "Two weeks without revenue. You are not running a business. You are running a hobby.",
}

// RequiredReading lists the books tracked on the arsenal tab, in display order.
var RequiredReading = []string{
	"48 Laws of Power",
	"Influence: The Psychology of Persuasion",
	"Concise Mastery",
	"The Art of War",
	"Atomic Habits",
	"The Laws of Human Nature",
	"33 Strategies of War",
	"The Art of Seduction",
	"Meditations",
}

type Stream struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var RequiredListening = []Stream{
	{Name: "Alex Hormozi", Description: "The Game (Business Strategy & Acquisition)"},
	{Name: "Lex Fridman", Description: "Deep Tech, AI & High-Level Discourse"},
	{Name: "My First Million", Description: "Market Gaps & Business Ideas"},
	{Name: "Huberman Lab", Description: "Biological Optimization (Sleep/Focus)"},
	{Name: "Modern Wisdom", Description: "Human Nature, Psychology & Evolution (Chris Williamson)"},
}

// Picker draws random entries from the banks. It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPicker seeds a picker. A zero seed uses the current time.
func NewPicker(seed int64) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (p *Picker) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}

func (p *Picker) Lyric() string {
	return Lyrics[p.Intn(len(Lyrics))]
}

func (p *Picker) RealityCheck() string {
	return RealityChecks[p.Intn(len(RealityChecks))]
}

// EscalationMessage returns the text for tier t, drawing tier 2 at random.
func (p *Picker) EscalationMessage(t metrics.Tier) string {
	return Escalation.Message(t, p.Intn)
}
