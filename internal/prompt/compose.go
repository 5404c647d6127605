package prompt

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/paperlens/paperlens-go/internal/rag"
)

// MaxHistoryMessages caps how many trailing conversation messages are
// forwarded to the model. This is a simple count cap; keeping total context
// volume inside the model's input limit is a tuning concern of topK and
// chunk size, not of the composer.
const MaxHistoryMessages = 10

// NoContextFound is the context block used when retrieval returned zero
// passages. Combined with the system rules it makes the model say the
// information is unavailable instead of answering from general knowledge.
const NoContextFound = "No relevant context found."

// Turn is one prior message of the conversation, supplied by the caller on
// every request. The service holds no session state.
type Turn struct {
	// Role is "user" or "assistant". Anything else is treated as "user".
	Role string
	// Content is the message text.
	Content string
}

// Compose builds the ordered message list for a generation request: the
// level-specific system instruction, then history oldest-first (capped to
// the last MaxHistoryMessages), then a user message holding the labeled
// context passages and the question. Returns ErrUnknownLevel for a level
// outside the fixed set.
func Compose(passages []rag.Passage, question string, level Level, history []Turn) ([]*schema.Message, error) {
	system, err := systemPrompt(level)
	if err != nil {
		return nil, err
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(system))

	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}
	for _, turn := range history {
		if turn.Role == "assistant" {
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		} else {
			messages = append(messages, schema.UserMessage(turn.Content))
		}
	}

	messages = append(messages, schema.UserMessage(userMessage(passages, question)))
	return messages, nil
}

// userMessage renders the context block and question into the final user
// message. Each passage gets an ordinal "Context N" label that the model can
// cite and the caller can map back to a citation.
func userMessage(passages []rag.Passage, question string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following context from a research paper, please answer the question.\n\n")
	sb.WriteString("CONTEXT FROM PAPER:\n")
	sb.WriteString(formatContext(passages))
	sb.WriteString("\n\nQUESTION: ")
	sb.WriteString(question)
	sb.WriteString("\n\nPlease provide a clear, accurate answer based only on the context provided above.")
	return sb.String()
}

// formatContext renders passages as labeled blocks, or the no-context
// instruction when there are none.
func formatContext(passages []rag.Passage) string {
	if len(passages) == 0 {
		return NoContextFound
	}

	var sb strings.Builder
	for i, p := range passages {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[Context %d]\n%s\n", i+1, p.Text)
	}
	return sb.String()
}
