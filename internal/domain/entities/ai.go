package entities

// AIChatRequest is the body of POST /ai/chat
type AIChatRequest struct {
	Message string `json:"message"`
}

// AIChatResponse is the answer of POST /ai/chat
type AIChatResponse struct {
	Reply string `json:"reply"`
}

// AIChatTurn is one entry of the assistant transcript
type AIChatTurn struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
}

// TextSuggestionRequest is the body of POST /ai/text-suggestions
type TextSuggestionRequest struct {
	Text string `json:"text"`
}

// TextSuggestionResponse is the answer of POST /ai/text-suggestions
type TextSuggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Diagnosis is the answer of the photo-based crop diagnosis
type Diagnosis struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Advice     string  `json:"advice,omitempty"`
}
