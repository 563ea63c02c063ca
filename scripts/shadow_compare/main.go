// Command shadow_compare diffs the weekly read served by the API against the
// generator's own weekly endpoint before switching SCHEDULER_READ_SOURCE.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/edu-console-api/pkg/generator"
)

type window struct {
	start string
	end   string
}

type comparison struct {
	Window         window
	APICount       int
	RemoteCount    int
	OnlyAPI        []string
	OnlyRemote     []string
	Error          error
	DurationAPI    time.Duration
	DurationRemote time.Duration
}

func main() {
	var (
		apiBase    string
		remoteBase string
		token      string
		start      string
		weeks      int
		timeout    time.Duration
	)

	flag.StringVar(&apiBase, "api-base", "http://localhost:8080/api/v1", "Scheduling API base URL")
	flag.StringVar(&remoteBase, "generator-base", "http://localhost:5000", "Generator service base URL")
	flag.StringVar(&token, "token", os.Getenv("SHADOW_COMPARE_TOKEN"), "Bearer token for the scheduling API")
	flag.StringVar(&start, "start", time.Now().Format("2006-01-02"), "First Monday to compare (YYYY-MM-DD)")
	flag.IntVar(&weeks, "weeks", 4, "Number of weeks to compare")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	first, err := time.Parse("2006-01-02", start)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results []comparison
		diffs   int
	)
	for i := 0; i < weeks; i++ {
		from := first.AddDate(0, 0, 7*i)
		w := window{start: from.Format("2006-01-02"), end: from.AddDate(0, 0, 6).Format("2006-01-02")}
		res := compareWindow(client, apiBase, remoteBase, token, w)
		if res.Error != nil || len(res.OnlyAPI) > 0 || len(res.OnlyRemote) > 0 {
			diffs++
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Weeks with differences: %d of %d\n", diffs, weeks)
	if diffs > 0 {
		os.Exit(1)
	}
}

func compareWindow(client *http.Client, apiBase, remoteBase, token string, w window) comparison {
	comp := comparison{Window: w}
	params := url.Values{}
	params.Set("start_date", w.start)
	params.Set("end_date", w.end)

	apiBody, apiDur, err := fetch(client, strings.TrimRight(apiBase, "/")+"/schedules/weekly?"+params.Encode(), token)
	comp.DurationAPI = apiDur
	if err != nil {
		comp.Error = fmt.Errorf("api request failed: %w", err)
		return comp
	}
	remoteBody, remoteDur, err := fetch(client, strings.TrimRight(remoteBase, "/")+"/schedule/weekly?"+params.Encode(), "")
	comp.DurationRemote = remoteDur
	if err != nil {
		comp.Error = fmt.Errorf("generator request failed: %w", err)
		return comp
	}

	var envelope struct {
		Data []generator.SessionPayload `json:"data"`
	}
	if err := json.Unmarshal(apiBody, &envelope); err != nil {
		comp.Error = fmt.Errorf("decode api body: %w", err)
		return comp
	}
	remote, err := generator.DecodeSessions(remoteBody)
	if err != nil {
		comp.Error = fmt.Errorf("decode generator body: %w", err)
		return comp
	}

	apiKeys := sessionKeys(envelope.Data)
	remoteKeys := sessionKeys(remote)
	comp.APICount = len(apiKeys)
	comp.RemoteCount = len(remoteKeys)
	comp.OnlyAPI = difference(apiKeys, remoteKeys)
	comp.OnlyRemote = difference(remoteKeys, apiKeys)
	return comp
}

func fetch(client *http.Client, target, token string) ([]byte, time.Duration, error) {
	if client == nil {
		return nil, 0, errors.New("nil client")
	}
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode >= 300 {
		return nil, time.Since(start), fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, time.Since(start), nil
}

// sessionKeys identifies sessions by placement; ids differ between the two sources.
func sessionKeys(items []generator.SessionPayload) map[string]struct{} {
	keys := make(map[string]struct{}, len(items))
	for _, item := range items {
		slots := make([]string, len(item.TimeSlots))
		for i, slot := range item.TimeSlots {
			slots[i] = fmt.Sprint(slot)
		}
		key := strings.Join([]string{item.ClassID, item.SessionDate, strings.Join(slots, ","), item.TeacherID, item.RoomID}, "|")
		keys[key] = struct{}{}
	}
	return keys
}

func difference(a, b map[string]struct{}) []string {
	var out []string
	for key := range a {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func printReport(results []comparison) {
	fmt.Println("Weekly Shadow Compare Report")
	fmt.Println("============================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if len(res.OnlyAPI) > 0 || len(res.OnlyRemote) > 0 {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s .. %s\n", status, res.Window.start, res.Window.end)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  API sessions: %d (%s) | Generator sessions: %d (%s)\n", res.APICount, res.DurationAPI, res.RemoteCount, res.DurationRemote)
		for _, key := range res.OnlyAPI {
			fmt.Printf("  only in API:       %s\n", key)
		}
		for _, key := range res.OnlyRemote {
			fmt.Printf("  only in generator: %s\n", key)
		}
	}
}
