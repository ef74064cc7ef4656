// Package guide implements the AI travel-guide feature: the prompt context
// assembled from the user's passport state and a client for the upstream
// text-generation API.
package guide

import (
	"strings"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
)

// Role values for chat messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a guide conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemPrompt grounds the model as the Hampi travel guide.
const SystemPrompt = `You are Hampi Guide, an expert AI travel companion for Hampi, Karnataka, India - a UNESCO World Heritage Site and the ancient capital of the Vijayanagara Empire.

Your role is to:
1. Help visitors plan their Hampi trip with personalized itineraries
2. Share fascinating historical stories and facts about heritage sites
3. Provide practical tips about visiting times, nearby amenities, and local customs
4. Suggest the best routes and must-see locations based on interests and time available
5. Answer questions about the Vijayanagara Empire's rich history and architecture

Be friendly, enthusiastic, and knowledgeable. Keep responses concise but informative. Use emojis sparingly to add warmth. When suggesting itineraries, consider the traveler's available time and interests.`

// BuildContext renders the user's passport state into a text block that is
// prepended to the system prompt, so the model knows which sites the
// traveller has already seen. Deterministic: output order follows catalog
// order, and the same inputs always produce the same string. Pure data
// formatting; no ranking and no model behavior.
func BuildContext(catalog []domain.HeritageSite, visited map[uuid.UUID]bool) string {
	var b strings.Builder

	b.WriteString("Sites the traveller has already visited:\n")
	found := false
	for _, site := range catalog {
		if !visited[site.ID] {
			continue
		}
		found = true
		b.WriteString("- ")
		b.WriteString(site.Name)
		b.WriteString(" (")
		b.WriteString(site.Category)
		b.WriteString(")\n")
	}
	if !found {
		b.WriteString("- none yet\n")
	}

	b.WriteString("\nSites not yet visited:\n")
	found = false
	for _, site := range catalog {
		if visited[site.ID] {
			continue
		}
		found = true
		b.WriteString("- ")
		b.WriteString(site.Name)
		if site.ShortDescription != "" {
			b.WriteString(": ")
			b.WriteString(site.ShortDescription)
		}
		if site.EstimatedDuration != "" {
			b.WriteString(" (about ")
			b.WriteString(site.EstimatedDuration)
			b.WriteString(")")
		}
		if site.BestTimeToVisit != "" {
			b.WriteString("; best visited ")
			b.WriteString(site.BestTimeToVisit)
		}
		b.WriteString("\n")
	}
	if !found {
		b.WriteString("- none, the passport is complete\n")
	}

	return b.String()
}
