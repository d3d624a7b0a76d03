// Package onboarding runs the scripted Q&A that collects the raw answers a
// profile is built from, over a line-oriented text protocol.
package onboarding

import "github.com/avdeev/ideaforge/internal/profile"

// Question is one scripted onboarding prompt.
type Question struct {
	Key      string
	Prompt   string
	Required bool
}

// Script is the fixed question sequence, in the order asked.
var Script = []Question{
	{
		Key:      profile.KeyName,
		Prompt:   "What's your name? (or what would you like me to call you?)",
		Required: true,
	},
	{
		Key:      profile.KeyRole,
		Prompt:   "What's your current role or status? (e.g., student, software developer, career changer)",
		Required: true,
	},
	{
		Key:      profile.KeyExperience,
		Prompt:   "How would you describe your overall experience with programming/technology? (beginner, intermediate, advanced, expert)",
		Required: true,
	},
	{
		Key:      profile.KeyLanguages,
		Prompt:   "Which programming languages do you know? Please list them with your comfort level (e.g., 'Python - intermediate, JavaScript - beginner')",
		Required: true,
	},
	{
		Key:      profile.KeyInterests,
		Prompt:   "What areas of technology interest you most? (e.g., AI/ML, Web Development, Mobile Apps, Data Science)",
		Required: true,
	},
	{
		Key:      profile.KeyGoals,
		Prompt:   "What are your career goals? What do you hope to achieve in the next 6-12 months?",
		Required: true,
	},
	{
		Key:      profile.KeyTimeCommitment,
		Prompt:   "How much time can you dedicate to a project per week? (e.g., 2-3 hours, 5-10 hours, 15+ hours)",
		Required: true,
	},
	{
		Key:      profile.KeyPreferences,
		Prompt:   "What type of projects appeal to you? (learning projects, portfolio pieces, business ideas, open source contributions)",
		Required: false,
	},
	{
		Key:      profile.KeyTechnologies,
		Prompt:   "Are there any specific technologies or frameworks you're excited to learn?",
		Required: false,
	},
	{
		Key:      profile.KeyBudget,
		Prompt:   "Do you have any budget constraints for tools, hosting, or resources? (free only, low budget, moderate budget, no constraints)",
		Required: false,
	},
}
