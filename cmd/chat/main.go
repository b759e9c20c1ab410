package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/personalink-ai/go-chat-backend/config"
	"github.com/personalink-ai/go-chat-backend/internal/auth"
	"github.com/personalink-ai/go-chat-backend/internal/chat/domain"
	"github.com/personalink-ai/go-chat-backend/internal/chat/repository"
	"github.com/personalink-ai/go-chat-backend/internal/session"
)

const welcome = "Hi! I'm the portfolio assistant. Ask me anything about my work, skills or experience."

var quickPrompts = []string{
	"Tell me about yourself",
	"What projects have you worked on?",
	"What are your strongest skills?",
	"How can I get in touch?",
}

func main() {
	relayURL := flag.String("relay", "http://localhost:8080/api/chat", "response relay endpoint")
	token := flag.String("token", os.Getenv("CHAT_ID_TOKEN"), "identity token for the relay")
	uid := flag.String("uid", "local-user", "user id for local profile storage")
	name := flag.String("name", "You", "display name shown on your messages")
	flag.Parse()

	if *token == "" {
		log.Fatal("an identity token is required (-token or CHAT_ID_TOKEN)")
	}

	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		log.Fatalf("profile store: %v", err)
	}

	assistant := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed)
	you := color.New(color.FgGreen, color.Bold)

	printer := &streamPrinter{out: assistant}

	ctrl, err := session.New(session.Config{
		RelayURL:       *relayURL,
		Tokens:         session.StaticTokenSource(*token),
		Profiles:       store,
		Identity:       domain.Identity{UID: *uid, DisplayName: *name},
		WelcomeMessage: welcome,
		OnMessages:     printer.update,
		OnNotice: func(n session.Notice) {
			switch n.Level {
			case session.NoticeError:
				fail.Fprintf(os.Stderr, "\n! %s\n", n.Message)
			default:
				warn.Fprintf(os.Stderr, "\n! %s\n", n.Message)
			}
		},
	})
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	if err := ctrl.Start(ctx); err != nil {
		log.Fatalf("session: %v", err)
	}

	for _, m := range ctrl.Messages() {
		if m.Role == domain.RoleAssistant {
			assistant.Printf("assistant> %s\n", m.Content)
		} else {
			you.Printf("you> ")
			fmt.Println(m.Content)
		}
	}
	printer.sync(ctrl.Messages())

	fmt.Println()
	fmt.Println("Quick prompts:")
	for i, p := range quickPrompts {
		fmt.Printf("  %d. %s\n", i+1, p)
	}
	fmt.Println("Type a message (or a quick prompt number). Ctrl-D to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		remaining := ctrl.PromptsRemaining()
		you.Printf("\n[%d left] you> ", remaining)
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if n := promptNumber(text); n > 0 && n <= len(quickPrompts) {
			text = quickPrompts[n-1]
			you.Printf("you> ")
			fmt.Println(text)
		}

		assistant.Printf("assistant> ")
		if err := ctrl.Send(ctx, text); err != nil {
			fmt.Println()
			continue
		}
		fmt.Println()
	}
}

// openStore mirrors the hosted client: profiles go straight to
// Firestore when credentials are configured, and to an in-process
// store otherwise.
func openStore(ctx context.Context) (session.ProfileService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Firebase.CredentialsPath == "" {
		return repository.NewMemoryStore(), nil
	}
	_, fsClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		return nil, err
	}
	return repository.NewFirestoreStore(fsClient), nil
}

func promptNumber(s string) int {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0
	}
	return int(s[0] - '0')
}

// streamPrinter renders streaming increments by printing only the
// suffix added since the last snapshot of the assistant message
// currently being filled in.
type streamPrinter struct {
	mu      sync.Mutex
	out     *color.Color
	printed map[string]int
}

func (p *streamPrinter) update(msgs []domain.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.printed == nil {
		return // not syncing yet; Start replays history separately
	}
	for _, m := range msgs {
		if m.Role != domain.RoleAssistant {
			continue
		}
		seen := p.printed[m.ID]
		if len(m.Content) > seen {
			p.out.Print(m.Content[seen:])
			p.printed[m.ID] = len(m.Content)
		}
	}
}

// sync marks everything currently in the list as already printed and
// turns on incremental output.
func (p *streamPrinter) sync(msgs []domain.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printed = make(map[string]int)
	for _, m := range msgs {
		p.printed[m.ID] = len(m.Content)
	}
}
