// Package advisor is a client for the remote advisor API,
// which suggests next steps and explains missions based on current progress.
//
// The advisor is an optional convenience. All errors are returned to the
// caller for inline display and never affect the rest of the app.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
)

// DefaultBaseURL is the production endpoint of the advisor API.
const DefaultBaseURL = "https://trailbuddy-advisor.kalkoken.app/v1"

// Advisor is a client for the advisor API.
// All methods are safe for concurrent use.
type Advisor struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// New returns a new advisor client. The given HTTP client is expected
// to handle retries.
func New(httpClient *http.Client, baseURL string) *Advisor {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Advisor{
		httpClient: httpClient,
		baseURL:    baseURL,
		// the API meters by client, stay well below its ceiling
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 3),
	}
}

type suggestRequest struct {
	CompletedTasks []string `json:"completedTasks"`
	GoldMedals     []string `json:"goldMedals"`
	Count          int      `json:"count"`
}

type suggestionPayload struct {
	Task          string `json:"task"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Difficulty    string `json:"difficulty"`
	EstimatedTime string `json:"estimatedCompletionTime"`
	Rationale     string `json:"rationale"`
}

type suggestResponse struct {
	Suggestions []suggestionPayload `json:"suggestions"`
}

// SuggestNextSteps asks the advisor for up to count suggested next tasks
// given the ids of completed tasks and earned gold medals.
func (a *Advisor) SuggestNextSteps(ctx context.Context, completed, goldMedals []string, count int) ([]app.Suggestion, error) {
	var r suggestResponse
	err := a.post(ctx, "/suggest-next-steps", suggestRequest{
		CompletedTasks: completed,
		GoldMedals:     goldMedals,
		Count:          count,
	}, &r)
	if err != nil {
		return nil, err
	}
	suggestions := make([]app.Suggestion, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		suggestions = append(suggestions, app.Suggestion{
			Task:          s.Task,
			Category:      s.Category,
			Priority:      s.Priority,
			Difficulty:    s.Difficulty,
			EstimatedTime: s.EstimatedTime,
			Rationale:     s.Rationale,
		})
	}
	return suggestions, nil
}

type missionHelpRequest struct {
	Mission   string   `json:"mission"`
	Objective []string `json:"goldMedalObjectives,omitempty"`
}

type missionHelpResponse struct {
	Help string `json:"help"`
}

// MissionHelp asks the advisor for walkthrough style help for one mission.
func (a *Advisor) MissionHelp(ctx context.Context, task app.Task) (string, error) {
	var r missionHelpResponse
	err := a.post(ctx, "/mission-help", missionHelpRequest{
		Mission:   task.Name,
		Objective: task.GoldMedalObjectives,
	}, &r)
	if err != nil {
		return "", err
	}
	return r.Help, nil
}

func (a *Advisor) post(ctx context.Context, path string, request, response any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(request)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("advisor request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("advisor request failed: %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("advisor returned invalid response: %w", err)
	}
	return nil
}
