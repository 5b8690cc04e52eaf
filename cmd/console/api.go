package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/wasteland/pkg/entitlement"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateGameRequest matches the API request structure
type CreateGameRequest struct {
	PlayerName string `json:"player_name"`
	PlayerUID  string `json:"player_uid,omitempty"`
	GameMode   string `json:"game_mode,omitempty"`
}

type ActionRequest struct {
	Action string `json:"action"`
	Item   string `json:"item,omitempty"`
	Index  *int   `json:"index,omitempty"`
	Code   string `json:"code,omitempty"`
}

type GameResponse struct {
	State    survival.View    `json:"state"`
	Messages []survival.Entry `json:"messages"`
	Result   json.RawMessage  `json:"result,omitempty"`
}

type PurchaseRequest struct {
	PlayerUID string `json:"player_uid"`
	Item      string `json:"item"`
}

type PurchaseResponse struct {
	entitlement.Result
	Entitlements []string `json:"entitlements"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON sends body (when non-nil) and decodes a response with one of the
// accepted status codes into out.
func doJSON(client *http.Client, method, url string, body any, out any, accept ...int) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if !accepted(resp.StatusCode, accept) {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func accepted(status int, accept []int) bool {
	for _, s := range accept {
		if status == s {
			return true
		}
	}
	return false
}

func openGame(client *http.Client, baseURL string, req CreateGameRequest) (*GameResponse, error) {
	var out GameResponse
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/games", req, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("failed to open game: %w", err)
	}
	return &out, nil
}

func getGame(client *http.Client, baseURL, playerUID string) (*GameResponse, error) {
	var out GameResponse
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/games/%s", baseURL, playerUID), nil, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &out, nil
}

func resetGame(client *http.Client, baseURL, playerUID string) (*GameResponse, error) {
	var out GameResponse
	if err := doJSON(client, http.MethodDelete, fmt.Sprintf("%s/v1/games/%s", baseURL, playerUID), nil, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}
	return &out, nil
}

func sendAction(client *http.Client, baseURL, playerUID string, action ActionRequest) (*GameResponse, error) {
	var out GameResponse
	url := fmt.Sprintf("%s/v1/games/%s/actions", baseURL, playerUID)
	if err := doJSON(client, http.MethodPost, url, action, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// purchase returns the result for both granted and declined purchases.
func purchase(client *http.Client, baseURL, playerUID, item string) (*PurchaseResponse, error) {
	var out PurchaseResponse
	req := PurchaseRequest{PlayerUID: playerUID, Item: item}
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/purchases", req, &out, http.StatusOK, http.StatusPaymentRequired); err != nil {
		return nil, err
	}
	return &out, nil
}
