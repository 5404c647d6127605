// Package prompt builds the chat messages sent to the generation model. The
// composition rules are the anti-hallucination core of the service: every
// answer is grounded in labeled context passages, and the model is told
// explicitly when no context was found.
package prompt

import (
	"errors"
	"fmt"
)

// ErrUnknownLevel is returned when a caller supplies an explanation level
// outside the fixed set.
var ErrUnknownLevel = errors.New("prompt: unknown explanation level")

// Level selects the register of the generated explanation. The set is closed:
// adding a level means adding a template and a case to every switch below,
// which the compiler then enforces.
type Level string

const (
	// LevelBeginner targets readers with no background in the field.
	LevelBeginner Level = "beginner"
	// LevelStudent targets undergraduate or graduate students. This is the
	// default when a request does not specify a level.
	LevelStudent Level = "student"
	// LevelResearcher targets practitioners familiar with the field.
	LevelResearcher Level = "researcher"
)

// Levels lists every valid explanation level, for request validation and
// CLI flag help.
func Levels() []Level {
	return []Level{LevelBeginner, LevelStudent, LevelResearcher}
}

// ParseLevel converts a wire string into a Level. The empty string resolves
// to LevelStudent; anything else outside the fixed set returns
// ErrUnknownLevel.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelBeginner, LevelStudent, LevelResearcher:
		return Level(s), nil
	case "":
		return LevelStudent, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: beginner, student, researcher)", ErrUnknownLevel, s)
	}
}

// basePrompt carries the three hard constraints every level shares: answer
// only from supplied context, never fabricate, state uncertainty explicitly.
const basePrompt = `You are an expert AI research paper explainer assistant. Your role is to help users understand research papers by providing accurate, well-structured explanations based ONLY on the provided context from the paper.

CRITICAL RULES:
1. ONLY use information from the provided context chunks. Do NOT make up or hallucinate information.
2. If the context doesn't contain enough information to answer a question, clearly state that the information is not available in the provided context.
3. Always cite specific sections or pages when possible using references from the context.
4. Be precise and accurate - maintain academic rigor.
5. If you're unsure about something, say so rather than guessing.
`

const beginnerStyle = `
EXPLANATION STYLE: BEGINNER LEVEL
- Use simple, everyday language
- Avoid jargon or explain it when necessary
- Use analogies and examples
- Break down complex concepts into smaller parts
- Focus on "what" and "why" rather than technical details
- Make it accessible to someone with no background in the field
`

const studentStyle = `
EXPLANATION STYLE: STUDENT LEVEL
- Use appropriate academic terminology but define key terms
- Provide context and background when needed
- Explain methodology and approach
- Connect concepts to broader knowledge
- Suitable for undergraduate or graduate students
- Balance simplicity with technical accuracy
`

const researcherStyle = `
EXPLANATION STYLE: RESEARCHER LEVEL
- Use precise technical and academic terminology
- Assume familiarity with the field
- Focus on methodology, implementation details, and technical nuances
- Discuss implications, limitations, and connections to other work
- Provide implementation insights and technical details
- Suitable for researchers and practitioners in the field
`

// systemPrompt returns the full system instruction for the given level.
func systemPrompt(level Level) (string, error) {
	switch level {
	case LevelBeginner:
		return basePrompt + beginnerStyle, nil
	case LevelStudent:
		return basePrompt + studentStyle, nil
	case LevelResearcher:
		return basePrompt + researcherStyle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}
