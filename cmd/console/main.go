package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ConsoleConfig struct {
	APIBaseURL string
	PlayerUID  string
	Timeout    time.Duration
}

var modes = []string{"normal", "hardcore", "creative"}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		PlayerUID:  os.Getenv("PLAYER_UID"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	req := CreateGameRequest{PlayerUID: cfg.PlayerUID}
	if cfg.PlayerUID == "" {
		in := bufio.NewReader(os.Stdin)
		fmt.Print("Enter your survivor's name: ")
		name, _ := in.ReadString('\n')
		req.PlayerName = strings.TrimSpace(name)

		fmt.Println("\nGame Modes:")
		for i, m := range modes {
			fmt.Printf("  %d - %s\n", i+1, m)
		}
		fmt.Print("\nSelect a mode by number: ")

		var choice int
		if _, err := fmt.Fscanf(in, "%d\n", &choice); err != nil || choice < 1 || choice > len(modes) {
			fmt.Fprintf(os.Stderr, "Invalid selection\n")
			os.Exit(1)
		}
		req.GameMode = modes[choice-1]
	}

	game, err := openGame(client, cfg.APIBaseURL, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, game),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
