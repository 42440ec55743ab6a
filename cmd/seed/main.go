// Seeds the catalog through the running server. Safe to run twice: the
// server refuses when products already exist.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(baseURL+"/api/products/seed", "application/json", nil)
	if err != nil {
		log.Fatalf("seed request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Fatalf("decode response: %v", err)
	}

	fmt.Printf("status:  %s\n", resp.Status)
	fmt.Printf("message: %s\n", result.Message)
	if !result.Success {
		os.Exit(1)
	}
}
