package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"digitora/internal/catalog"
	"digitora/pkg/domain"
)

type stubGenerator struct {
	reply   string
	err     error
	block   chan struct{}
	prompts []string
}

func (g *stubGenerator) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.prompts = append(g.prompts, systemPrompt)
	if g.block != nil {
		<-g.block
	}
	return g.reply, g.err
}

func testCatalog() *catalog.Store {
	return catalog.NewStore([]domain.Course{
		{ID: "c1", Title: "DeFi Mastery", Category: domain.CategoryDeFi, Price: 129.99, Description: "liquidity pools", Level: domain.LevelAdvanced},
	}, nil)
}

func TestAdvisorSeedsGreeting(t *testing.T) {
	adv := NewAdvisor(testCatalog(), &stubGenerator{reply: "ok"})
	msgs := adv.Messages()
	if len(msgs) != 1 || msgs[0].Role != domain.RoleAssistant {
		t.Fatalf("expected seeded greeting, got %v", msgs)
	}
	if !strings.Contains(msgs[0].Text, "Digitora AI") {
		t.Fatalf("unexpected greeting %q", msgs[0].Text)
	}
}

func TestAdvisorSendAppendsInOrder(t *testing.T) {
	gen := &stubGenerator{reply: "Try DeFi Mastery."}
	adv := NewAdvisor(testCatalog(), gen)
	reply, err := adv.Send(context.Background(), "I want to learn DeFi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Role != domain.RoleAssistant || reply.Text != "Try DeFi Mastery." {
		t.Fatalf("unexpected reply %+v", reply)
	}
	msgs := adv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected greeting + user + reply, got %d messages", len(msgs))
	}
	if msgs[1].Role != domain.RoleUser || msgs[2].Role != domain.RoleAssistant {
		t.Fatalf("unexpected transcript order: %v", msgs)
	}
}

func TestAdvisorSystemPromptListsCatalog(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	adv := NewAdvisor(testCatalog(), gen)
	if _, err := adv.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one generator call, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "- DeFi Mastery (DeFi, $129.99): liquidity pools [Level: Advanced]") {
		t.Fatalf("system prompt missing catalog bullet:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Only recommend courses from the list above.") {
		t.Fatalf("system prompt missing behavior rules:\n%s", prompt)
	}
}

func TestAdvisorRejectsConcurrentSend(t *testing.T) {
	gen := &stubGenerator{reply: "slow answer", block: make(chan struct{})}
	adv := NewAdvisor(testCatalog(), gen)

	done := make(chan error, 1)
	go func() {
		_, err := adv.Send(context.Background(), "first")
		done <- err
	}()

	deadline := time.After(time.Second)
	for {
		if _, err := adv.Send(context.Background(), "second"); errors.Is(err, ErrBusy) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("second send was never rejected as busy")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}
	if _, err := adv.Send(context.Background(), "third"); err != nil {
		t.Fatalf("send after release: %v", err)
	}
}

func TestAdvisorDegradedWithoutGenerator(t *testing.T) {
	adv := NewAdvisor(testCatalog(), nil)
	reply, err := adv.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(reply.Text, "API Key missing") {
		t.Fatalf("expected disconnected notice, got %q", reply.Text)
	}
}

func TestAdvisorGeneratorFailureDegrades(t *testing.T) {
	adv := NewAdvisor(testCatalog(), &stubGenerator{err: errors.New("upstream 500")})
	reply, err := adv.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Text != "I'm having trouble analyzing the market data right now. Please try again later." {
		t.Fatalf("expected failure notice, got %q", reply.Text)
	}
}

func TestAdvisorRejectsEmptyMessage(t *testing.T) {
	adv := NewAdvisor(testCatalog(), &stubGenerator{reply: "ok"})
	if _, err := adv.Send(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank message")
	}
	if len(adv.Messages()) != 1 {
		t.Fatalf("blank message must not touch the transcript")
	}
}
