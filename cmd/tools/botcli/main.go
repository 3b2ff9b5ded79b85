package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// botcli drives a running EventBuddy instance from the terminal: it plays
// the channel connector, posting one turn per input line and printing the
// messages that come back. Lines starting with "pb " are sent as postbacks.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	addr := flag.String("addr", "http://127.0.0.1:3978", "base URL of the running bot")
	conversation := flag.String("conversation", "", "conversation id, auto-generated when empty")
	secret := flag.String("secret", "", "channel app secret, if the bot requires one")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	conversationID := *conversation
	if conversationID == "" {
		conversationID = "cli-" + uuid.NewString()
	}

	client := &http.Client{Timeout: *timeout}

	fmt.Printf("conversation %s: type a message, 'pb <payload>' for a postback, ctrl-D to quit\n", conversationID)

	// Open the conversation the way a connector would.
	sendTurn(client, *addr, *secret, convo.Inbound{
		ConversationID: conversationID,
		Type:           convo.InboundStart,
	})

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		inbound := convo.Inbound{ConversationID: conversationID, Type: convo.InboundMessage, Text: line}
		if payload, ok := strings.CutPrefix(line, "pb "); ok {
			inbound = convo.Inbound{ConversationID: conversationID, Type: convo.InboundPostback, Value: payload}
		}

		sendTurn(client, *addr, *secret, inbound)
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin error: %v", err)
	}
}

func sendTurn(client *http.Client, addr, secret string, inbound convo.Inbound) {
	body, err := json.Marshal(inbound)
	if err != nil {
		log.Fatalf("failed to encode turn: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(addr, "/")+"/api/messages", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		log.Printf("bot returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
		return
	}

	var reply struct {
		Messages []convo.Outbound `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		log.Printf("failed to decode reply: %v", err)
		return
	}

	for _, msg := range reply.Messages {
		printMessage(msg)
	}
}

func printMessage(msg convo.Outbound) {
	switch msg.Type {
	case convo.OutboundText:
		fmt.Println(msg.Text)
	case convo.OutboundCard:
		if msg.Card != nil {
			printCard(*msg.Card)
		}
	case convo.OutboundCarousel:
		for _, card := range msg.Cards {
			printCard(card)
		}
	case convo.OutboundQuickReplies:
		fmt.Println(msg.Text)
		for _, button := range msg.Buttons {
			fmt.Printf("  [%s]\n", button.Label)
		}
	default:
		fmt.Printf("(unrenderable message type %q)\n", msg.Type)
	}
}

func printCard(card convo.Card) {
	fmt.Printf("── %s\n", card.Title)
	if card.Subtitle != "" {
		fmt.Printf("   %s\n", card.Subtitle)
	}
	if card.Body != "" {
		fmt.Printf("   %s\n", card.Body)
	}
	for _, button := range card.Buttons {
		fmt.Printf("   [%s → %s]\n", button.Label, button.Value)
	}
}
