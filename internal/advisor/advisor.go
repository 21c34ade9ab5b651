// Package advisor runs the catalog-grounded recommendation chat. The
// transcript lives in memory only and resets with the process.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"digitora/internal/catalog"
	"digitora/pkg/ai"
	"digitora/pkg/domain"
)

// ErrBusy indicates a chat request while another one is still running.
var ErrBusy = errors.New("advisor is busy")

const (
	greeting = "Hello! I'm Digitora AI. Tell me your investment goals (e.g., 'I want to learn DeFi' or 'How to trade Forex?'), and I'll find the perfect course for you."

	disconnectedReply = "I apologize, but I am currently disconnected from the neural network (API Key missing). Please explore the course catalog manually."
	failureReply      = "I'm having trouble analyzing the market data right now. Please try again later."
	emptyReply        = "I couldn't generate a recommendation at this time."
)

// Advisor holds the chat transcript and talks to the text generator. One
// request may be outstanding at a time; further sends are rejected with
// ErrBusy instead of queueing.
type Advisor struct {
	catalog   *catalog.Store
	generator ai.TextGenerator
	sem       *semaphore.Weighted

	mu       sync.Mutex
	messages []domain.ChatMessage
}

// NewAdvisor seeds the transcript with the fixed greeting. A nil
// generator puts the advisor in degraded mode: sends still append to the
// transcript but always answer with the disconnected notice.
func NewAdvisor(cat *catalog.Store, generator ai.TextGenerator) *Advisor {
	return &Advisor{
		catalog:   cat,
		generator: generator,
		sem:       semaphore.NewWeighted(1),
		messages: []domain.ChatMessage{
			{Role: domain.RoleAssistant, Text: greeting, CreatedAt: time.Now().UTC()},
		},
	}
}

// Messages returns a snapshot of the transcript in append order.
func (a *Advisor) Messages() []domain.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ChatMessage, len(a.messages))
	copy(out, a.messages)
	return out
}

// Send appends the user message, asks the generator and appends the
// reply. Generator failures degrade to a fixed notice instead of an
// error; only a concurrent outstanding request is rejected.
func (a *Advisor) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, fmt.Errorf("message text is required")
	}
	if !a.sem.TryAcquire(1) {
		return domain.ChatMessage{}, ErrBusy
	}
	defer a.sem.Release(1)

	a.append(domain.ChatMessage{Role: domain.RoleUser, Text: text, CreatedAt: time.Now().UTC()})

	reply := domain.ChatMessage{Role: domain.RoleAssistant, Text: a.generate(ctx, text), CreatedAt: time.Now().UTC()}
	a.append(reply)
	return reply, nil
}

func (a *Advisor) generate(ctx context.Context, userQuery string) string {
	if a.generator == nil {
		return disconnectedReply
	}
	answer, err := a.generator.GenerateText(ctx, a.systemPrompt(), userQuery)
	if err != nil {
		slog.Warn("advisor generation failed", "error", err)
		return failureReply
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return emptyReply
	}
	return answer
}

func (a *Advisor) systemPrompt() string {
	var b strings.Builder
	for _, c := range a.catalog.Courses() {
		fmt.Fprintf(&b, "- %s (%s, $%.2f): %s [Level: %s]\n", c.Title, c.Category, c.Price, c.Description, c.Level)
	}
	return fmt.Sprintf(`You are 'Digitora', an expert digital asset education consultant for Digitora Studios.
Your goal is to recommend the best courses from our catalog based on the user's needs.

Here is our available Course Catalog:
%s
Rules:
1. Only recommend courses from the list above.
2. Be concise, professional, and encouraging.
3. If the user asks about general market trends, briefly answer but pivot back to how our courses help them master that trend.
4. Format your response with clear bullet points if recommending multiple courses.
5. Mention the price and difficulty level when recommending.`, b.String())
}

func (a *Advisor) append(msg domain.ChatMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, msg)
}
