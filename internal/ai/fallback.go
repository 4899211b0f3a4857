package ai

import (
	"fmt"
	"strings"
)

// FallbackReply picks a canned answer for a user message when the model
// is unavailable. Keyword routing is deterministic so the assistant
// always has something sensible to say.
func FallbackReply(userMessage string, ec *ExpenseContext, general bool) string {
	lower := strings.ToLower(userMessage)

	if general {
		switch {
		case strings.Contains(lower, "weather"):
			return "I can't check live weather data, but you can find current weather by searching 'weather [your city]' or checking a weather app!"
		case strings.Contains(lower, "news") || strings.Contains(lower, "current"):
			return "For the latest news, I recommend checking reliable news sources like BBC, Reuters, AP News, or your local news outlets for current events!"
		case strings.Contains(lower, "time") || strings.Contains(lower, "date"):
			return "I can't check the current time, but you can see it on your device's clock or search 'current time' for any timezone!"
		}
		return "I'm having trouble connecting right now, but I'd love to help you with any questions! Try asking about topics like science, history, technology, or anything else you're curious about."
	}

	switch {
	case strings.Contains(lower, "budget") || strings.Contains(lower, "spending"):
		return "Great question about budgeting! The 50/30/20 rule is a good starting point: 50% for needs, 30% for wants, and 20% for savings. Would you like me to analyze your current spending patterns?"
	case strings.Contains(lower, "save") || strings.Contains(lower, "saving"):
		return "Smart thinking about saving! Start small - even $25/week adds up to $1,300 yearly. Track your expenses for a week to find areas where you can cut back. What's your savings goal?"
	case strings.Contains(lower, "category") || strings.Contains(lower, "categorize"):
		return "I can help you categorize expenses! Common categories include: Food & Dining, Transportation, Entertainment, Utilities, Shopping, and Healthcare. What transaction do you need help categorizing?"
	case strings.Contains(lower, "voice") || strings.Contains(lower, "speech"):
		return "The voice feature is great! Just say things like 'I spent $25 on lunch' or 'Paid 60 dollars for gas' and I'll automatically detect the amount, category, and description for you."
	case ec != nil && (strings.Contains(lower, "analyze") || strings.Contains(lower, "insight")):
		return analysisFallback(ec)
	}

	return "Hi! I'm your AI assistant. I can help with finance questions and general knowledge. Try asking me about budgeting, saving tips, or any topic you're curious about!"
}

func analysisFallback(ec *ExpenseContext) string {
	top := "unknown"
	if len(ec.TopCategories) > 0 {
		top = string(ec.TopCategories[0].Category)
	}

	net := ec.Net()
	if net.Cents > 0 {
		return fmt.Sprintf(
			"Good news! You're saving $%s this month. Your top expense is %s. Consider setting aside this surplus for an emergency fund or investments!",
			net, top)
	}
	net.Cents = -net.Cents
	return fmt.Sprintf(
		"You're spending $%s more than you earn. Focus on reducing %s expenses first. Need specific tips?",
		net, top)
}
