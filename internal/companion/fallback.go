package companion

import (
	"math/rand/v2"
	"strings"
)

var keywordReplies = []struct {
	words []string
	reply string
}{
	{
		words: []string{"sad", "depressed", "down"},
		reply: "I'm sorry you're feeling down. It's completely normal to have difficult days. What's one thing that usually helps lift your spirits, even just a little? 💙",
	},
	{
		words: []string{"anxious", "worried", "stress"},
		reply: "Anxiety can be really overwhelming. Let's take a deep breath together. Inhale for 4 counts, hold for 4, exhale for 4. What's causing you the most worry right now?",
	},
	{
		words: []string{"angry", "frustrated", "mad"},
		reply: "It's okay to feel angry - that's a valid emotion. Sometimes anger can be a sign that something important to us has been affected. What's behind these feelings?",
	},
	{
		words: []string{"tired", "exhausted", "burnout"},
		reply: "It sounds like you're really worn out. Rest is not a luxury, it's a necessity. What would help you feel more rested and recharged?",
	},
	{
		words: []string{"happy", "good", "great"},
		reply: "That's wonderful! I'm so glad you're feeling good today. What's contributing to this positive mood? It's great to celebrate the good moments! 🌟",
	},
}

var defaultReplies = []string{
	"I hear you, and your feelings are valid. Can you tell me more about what's on your mind? 💙",
	"Thank you for sharing that with me. It takes courage to open up. How can I support you right now?",
	"I'm here to listen. Sometimes just talking about our feelings can help us process them better.",
	"That sounds challenging. Remember, it's okay to not be okay. What would be most helpful for you right now?",
	"I appreciate you trusting me with this. Let's work through this together. What's one small step you could take?",
}

// Fallback picks an offline supportive reply for text. Keyword groups are
// checked in order; otherwise pick chooses one of the default replies.
func Fallback(text string, pick func(n int) int) string {
	lower := strings.ToLower(text)
	for _, kr := range keywordReplies {
		for _, w := range kr.words {
			if strings.Contains(lower, w) {
				return kr.reply
			}
		}
	}
	if pick == nil {
		pick = randomIndex
	}
	i := pick(len(defaultReplies))
	if i < 0 || i >= len(defaultReplies) {
		i = 0
	}
	return defaultReplies[i]
}

func randomIndex(n int) int {
	return rand.IntN(n)
}
