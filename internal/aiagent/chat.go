package aiagent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yash81300/arogyamitra/internal/users"
)

const (
	chatHistoryWindow = 10
	maxPlanPromptLen  = 1000

	chatUnavailableReply   = "I'm having trouble connecting right now. Please try again!"
	healthUnavailableReply = "AI health analysis is not available right now. Please consult a healthcare professional for personalised advice."
)

const healthSystemPrompt = `You are an expert health and fitness analyst. Analyse the user's health data and provide:
1. BMI assessment and health status
2. Key health considerations for their fitness plan
3. Specific recommendations based on conditions/injuries
4. Safety guidelines
Be informative but remind them to consult healthcare professionals for medical advice.
Do NOT include any title or heading at the start, begin directly with the analysis.`

const adjustSystemPrompt = `You are a fitness coach. Modify the given plan based on the reason provided.
Return ONLY valid JSON with the same structure as the input plan, modified appropriately.`

func displayName(profile users.Profile) string {
	if profile.FullName != "" {
		return profile.FullName
	}
	return profile.Username
}

func coachSystemPrompt(profile users.Profile, status string) string {
	if status == "" {
		status = "normal"
	}
	return fmt.Sprintf(`You are AROMI, an empathetic and knowledgeable AI fitness coach for ArogyaMitra.
User Profile:
- Name: %s
- Fitness Level: %s
- Goal: %s
- Diet: %s
- Workout Preference: %s
- Points: %d
- Current Status: %s

Be motivational, supportive, and provide actionable fitness and nutrition advice.
Adapt recommendations based on travel, injuries, mood, or time constraints mentioned.
Keep responses concise (2-4 paragraphs max) and engaging.`,
		displayName(profile), profile.FitnessLevel, profile.FitnessGoal,
		profile.DietPreference, profile.WorkoutPreference, profile.Points, status,
	)
}

// SanitizeHistory keeps the last messages of a conversation in a shape the
// model accepts: no empty messages and no two consecutive messages of the
// same role.
func SanitizeHistory(history []ChatMessage) []ChatMessage {
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}
	sanitized := make([]ChatMessage, 0, len(history))
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		role := msg.Role
		if role == "" {
			role = "user"
		}
		if len(sanitized) > 0 && sanitized[len(sanitized)-1].Role == role {
			continue
		}
		sanitized = append(sanitized, ChatMessage{Role: role, Content: msg.Content})
	}
	return sanitized
}

// Chat answers a message of the user in the persona of the coach. The status
// is a hint like "traveling" or "low_energy" the answer should adapt to.
func (a *Agent) Chat(ctx context.Context, profile users.Profile, status string, history []ChatMessage, message string) (string, error) {
	if !a.Enabled() {
		return fmt.Sprintf(
			"Namaste %s! I'm AROMI, your personal fitness companion. The AI coach is not configured yet, so I can't give personalised guidance right now.",
			displayName(profile),
		), nil
	}

	messages := []ChatMessage{{Role: "system", Content: coachSystemPrompt(profile, status)}}
	messages = append(messages, SanitizeHistory(history)...)
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	reply, err := a.complete(ctx, "chat", messages, 0.8, 1000)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		a.fallback("chat", err)
		return chatUnavailableReply, nil
	}
	return reply, nil
}

// AnalyzeHealth returns a free text analysis of an assessment.
func (a *Agent) AnalyzeHealth(ctx context.Context, profile users.Profile, healthData any) (string, error) {
	data, err := json.MarshalIndent(healthData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal health data: %w", err)
	}
	prompt := fmt.Sprintf("Analyse this health assessment:\n%s\nUser: Age %s, Gender %s, Goal: %s",
		data, orNotSpecified(profile.Age), orNotSpecified(profile.Gender), profile.FitnessGoal)

	analysis, err := a.complete(ctx, "health", []ChatMessage{
		{Role: "system", Content: healthSystemPrompt},
		{Role: "user", Content: prompt},
	}, 0.7, 1500)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		a.fallback("health", err)
		return healthUnavailableReply, nil
	}
	return analysis, nil
}

// AdjustPlan rewrites a plan for the given reason. The plan is returned
// unchanged when the model gives no usable answer.
func (a *Agent) AdjustPlan(ctx context.Context, profile users.Profile, reason string, currentPlan map[string]any) (map[string]any, error) {
	planJSON, err := json.MarshalIndent(currentPlan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal current plan: %w", err)
	}
	summary := string(planJSON)
	if len(summary) > maxPlanPromptLen {
		summary = summary[:maxPlanPromptLen]
	}
	prompt := fmt.Sprintf("Adjust this fitness plan because: %s\nCurrent plan summary: %s\nUser fitness level: %s, Goal: %s",
		reason, summary, profile.FitnessLevel, profile.FitnessGoal)

	adjusted := map[string]any{}
	err = a.completeJSON(ctx, "adjust", []ChatMessage{
		{Role: "system", Content: adjustSystemPrompt},
		{Role: "user", Content: prompt},
	}, 2000, &adjusted)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.fallback("adjust", err)
		return currentPlan, nil
	}
	return adjusted, nil
}
