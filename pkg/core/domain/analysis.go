package domain

// Analysis is the AI classification attached to a link at creation time.
// Field names match the JSON schema the model is asked to produce.
type Analysis struct {
	SafetyRating     int      `json:"safetyRating"`
	SuggestedAliases []string `json:"suggestedAliases"`
	Category         string   `json:"category"`
	Summary          string   `json:"summary"`
}

// FallbackAnalysis is returned whenever classification fails.
// Creation must never block on the classifier.
func FallbackAnalysis() Analysis {
	return Analysis{
		SafetyRating:     80,
		SuggestedAliases: []string{"link", "shorty", "go"},
		Category:         "General",
		Summary:          "A web link.",
	}
}

// AssistantApology replaces the reply whenever the assistant stream
// fails; the transcript never shows a partial, unmarked message.
const AssistantApology = "Sorry, something went wrong while answering that. Please try again."

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}
