package tutor

import "studyflow-backend/internal/models"

const greeting = "Hello! I'm your AI tutor. I've analyzed your uploaded notes and I'm here to help you learn more effectively. What would you like to study today?"

var responsePools = map[models.TutorMode][]string{
	models.ModeExplain: {
		"Let me break this down for you step by step. Based on your notes, I can see you're working on this concept. Here's a clear explanation that I'll also speak aloud for better understanding...",
		"Great question! From what I've learned about your study materials, this topic connects to several concepts you've already covered. Listen as I explain the connections...",
		"I notice from your uploaded notes that you might find this easier if we approach it from a different angle. Let me explain this concept in a way that's easy to follow...",
	},
	models.ModeQuiz: {
		"Perfect! Let me test your understanding with a question based on your notes. You can answer by speaking or typing: What is the main principle behind this concept?",
		"Time for a quick quiz! Based on the material you've uploaded, can you explain how these two concepts relate? Feel free to use voice input for your answer.",
		"Let's see how well you've grasped this. Here's a question from your study materials. You can respond using voice or text...",
	},
	models.ModePractice: {
		"Excellent! Let's practice this together. I'll guide you through a problem similar to what you have in your notes. Listen carefully to my instructions.",
		"Practice makes perfect! Based on your uploaded materials, let's work through this step by step. I'll speak through each step clearly.",
		"Let's apply what you've learned. I'll create a practice scenario using concepts from your notes and guide you through it verbally...",
	},
	models.ModeHelp: {
		"I'm here to help! Based on your study history and notes, I can assist you with explanations, practice problems, or quick quizzes. You can ask me questions using voice or text.",
		"How can I support your learning today? I have access to your uploaded notes and can adapt to your preferred learning style. Try using voice commands for a more interactive experience.",
		"I'm ready to help you master this material. What specific area would you like to focus on? You can speak your questions naturally.",
	},
}

// Pool returns a copy of the canned replies for mode. Unknown modes get the
// help pool.
func Pool(mode models.TutorMode) []string {
	pool, ok := responsePools[mode]
	if !ok {
		pool = responsePools[models.ModeHelp]
	}
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

func QuickActions() []models.QuickAction {
	return []models.QuickAction{
		{Label: "Explain this concept", Mode: models.ModeExplain},
		{Label: "Quiz me", Mode: models.ModeQuiz},
		{Label: "Practice problems", Mode: models.ModePractice},
		{Label: "General help", Mode: models.ModeHelp},
	}
}

func SuggestedQuestions() []string {
	return []string{
		"Can you explain the main concept from my biology notes?",
		"Create a practice problem for mathematics",
		"Quiz me on the topics I studied yesterday",
		"Help me understand this difficult concept",
		"What should I focus on based on my weak areas?",
	}
}

// History is the static past-session view; nothing is recorded into it.
func History() []models.HistoryDay {
	return []models.HistoryDay{
		{
			Date: "Today",
			Sessions: []models.HistorySession{
				{Subject: "Mathematics", DurationMinutes: 25, Messages: 12, Topics: []string{"Quadratic Equations", "Factoring"}},
				{Subject: "Biology", DurationMinutes: 18, Messages: 8, Topics: []string{"Photosynthesis", "Cell Structure"}},
			},
		},
		{
			Date: "Yesterday",
			Sessions: []models.HistorySession{
				{Subject: "Computer Science", DurationMinutes: 35, Messages: 16, Topics: []string{"Algorithms", "Data Structures"}},
			},
		},
	}
}
