// Command tutorchat is a terminal client for the grounded tutor stream.
// It sends each line you type to the streaming endpoint, prints chunks as
// they arrive, and resolves any navigation directive the model emitted:
//
//	go run ./cmd/tutorchat -url http://localhost:3001 -token $JWT
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/studenthub/tutor-engine/internal/action"
)

func main() {
	baseURL := flag.String("url", "http://localhost:3001", "tutor engine base URL")
	token := flag.String("token", os.Getenv("TUTOR_TOKEN"), "bearer token")
	flag.Parse()

	client := &http.Client{Timeout: 3 * time.Minute}
	stdin := bufio.NewScanner(os.Stdin)

	fmt.Println("Tutor chat. Type a question, Ctrl-D to quit.")
	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			fmt.Println()
			return
		}
		query := strings.TrimSpace(stdin.Text())
		if query == "" {
			continue
		}

		if err := ask(client, *baseURL, *token, query); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

func ask(client *http.Client, baseURL, token, query string) error {
	payload, _ := json.Marshal(map[string]string{"query": query})

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/ai/stream", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	// Print chunks live, but keep the full text so the action marker can be
	// stripped once the stream ends. The marker may straddle chunk
	// boundaries, so it can't be filtered chunk by chunk.
	var full strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			full.WriteString(chunk)
			fmt.Print(chunk)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	fmt.Println()

	clean, act := action.Extract(full.String())
	if act != nil {
		// Reprint without the marker so the transcript stays readable.
		fmt.Println("\n--- cleaned ---")
		fmt.Println(clean)
		fmt.Printf("\n→ navigate to %s", act.URL)
		if act.Label != "" {
			fmt.Printf(" (%s)", act.Label)
		}
		fmt.Println()
	}
	return nil
}
