package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/chat/v1"

type chatRequest struct {
	Message string `json:"message"`
	ChatId  string `json:"chat_id,omitempty"`
	UserId  string `json:"user_id,omitempty"`
}

type chatResponse struct {
	Message    string   `json:"message"`
	AgentsUsed []string `json:"agents_used"`
	References []string `json:"references"`
	ChatId     string   `json:"chat_id"`
}

func main() {
	color.Cyan("🚀 Healthcare Chat Simulation Client\n")

	turns := []string{
		"Wat wordt er vergoed voor fysiotherapie?",
		"Hoe dien ik een declaratie in?",
		"Ik wil mijn afspraak van dinsdag verzetten, mijn email is jan@example.com",
		"Bedankt, wat kost de aanvullende verzekering per maand?",
	}

	chatId := ""
	for i, text := range turns {
		color.Yellow("\n[TURN %d] USER: %s", i+1, text)

		start := time.Now()
		reply, err := sendChat(chatId, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Failed: %v", err)
			continue
		}

		chatId = reply.ChatId
		color.Green("ASSISTANT (%v): %s", elapsed.Round(time.Millisecond), reply.Message)
		fmt.Printf("  agents: %v\n", reply.AgentsUsed)
		if len(reply.References) > 0 {
			fmt.Printf("  references: %v\n", reply.References)
		}

		// Give async telemetry a moment to flush server side.
		time.Sleep(500 * time.Millisecond)
	}

	color.Cyan("\nDone. Conversation id: %s", chatId)
}

func sendChat(chatId, text string) (*chatResponse, error) {
	payload, _ := json.Marshal(chatRequest{
		Message: text,
		ChatId:  chatId,
		UserId:  "simulation",
	})

	resp, err := http.Post(baseURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s: %s", resp.Status, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
