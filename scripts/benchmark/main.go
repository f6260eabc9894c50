package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "laodeai API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "Number of runs per query for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Queries aimed at each family of supported sites.
var testQueries = []struct {
	Label string
	Query string
}{
	{"Code", "golang read file line by line stackoverflow"},
	{"Sysadmin", "nginx 502 bad gateway php-fpm serverfault"},
	{"Wiki", "alan turing wikipedia"},
	{"HowTo", "how to tie a tie wikihow"},
	{"Recipe", "banana bread recipe food network"},
	{"Slang", "yeet urban dictionary"},
}

type answerRequest struct {
	Query    string `json:"query"`
	Truncate bool   `json:"truncate"`
}

type answerResponse struct {
	Success   bool   `json:"success"`
	Kind      string `json:"kind"`
	Source    string `json:"source"`
	Content   string `json:"content"`
	ZeroClick bool   `json:"zero_click"`
	Timing    struct {
		TotalMs   int64 `json:"total_ms"`
		SearchMs  int64 `json:"search_ms"`
		ResolveMs int64 `json:"resolve_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type runResult struct {
	Run           int    `json:"run"`
	TotalMs       int64  `json:"total_ms"`
	SearchMs      int64  `json:"search_ms"`
	ResolveMs     int64  `json:"resolve_ms"`
	Kind          string `json:"kind,omitempty"`
	Host          string `json:"host,omitempty"`
	ContentLength int    `json:"content_length"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

type queryAverages struct {
	TotalMs   float64 `json:"total_ms"`
	SearchMs  float64 `json:"search_ms"`
	ResolveMs float64 `json:"resolve_ms"`
}

type queryResult struct {
	Query    string         `json:"query"`
	Label    string         `json:"label"`
	Runs     []runResult    `json:"runs"`
	Averages *queryAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp    string        `json:"timestamp"`
	APIURL       string        `json:"api_url"`
	RunsPerQuery int           `json:"runs_per_query"`
	Results      []queryResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== laodeai Benchmark ===")
	fmt.Printf("API URL:     %s\n", *apiURL)
	fmt.Printf("Runs/query:  %d\n", *runs)
	fmt.Printf("Output:      %s\n\n", *output)

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		APIURL:       *apiURL,
		RunsPerQuery: *runs,
	}

	client := &http.Client{Timeout: 120 * time.Second}
	for _, q := range testQueries {
		fmt.Printf("Benchmarking [%s] %q ...\n", q.Label, q.Query)
		qr := queryResult{Query: q.Query, Label: q.Label}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkQuery(client, q.Query, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %s from %s\n", rr.TotalMs, rr.Kind, rr.Host)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			qr.Runs = append(qr.Runs, rr)
		}

		qr.Averages = computeAverages(qr.Runs)
		report.Results = append(report.Results, qr)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkQuery(client *http.Client, query string, run int) runResult {
	rr := runResult{Run: run}

	body, err := json.Marshal(answerRequest{Query: query, Truncate: true})
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/v1/answer", bytes.NewReader(body))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var ar answerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Success = ar.Success
	rr.TotalMs = ar.Timing.TotalMs
	rr.SearchMs = ar.Timing.SearchMs
	rr.ResolveMs = ar.Timing.ResolveMs
	rr.Kind = ar.Kind
	rr.ContentLength = len(ar.Content)
	if u, err := url.Parse(ar.Source); err == nil {
		rr.Host = u.Hostname()
	}
	if ar.ZeroClick {
		rr.Host = "zero-click"
	}
	if ar.Error != nil {
		rr.Error = ar.Error.Code + ": " + ar.Error.Message
	}
	return rr
}

func computeAverages(runs []runResult) *queryAverages {
	var n float64
	var avg queryAverages
	for _, r := range runs {
		if !r.Success {
			continue
		}
		n++
		avg.TotalMs += float64(r.TotalMs)
		avg.SearchMs += float64(r.SearchMs)
		avg.ResolveMs += float64(r.ResolveMs)
	}
	if n == 0 {
		return nil
	}
	avg.TotalMs /= n
	avg.SearchMs /= n
	avg.ResolveMs /= n
	return &avg
}

func printTable(results []queryResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Query\tAvg Total\tSearch\tResolve\tAnswered by\n")
	fmt.Fprintf(w, "─────\t─────────\t──────\t───────\t───────────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\t-\n", shorten(r.Query, 40))
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%dms\t%dms\t%s\n",
			shorten(r.Query, 40),
			int64(r.Averages.TotalMs),
			int64(r.Averages.SearchMs),
			int64(r.Averages.ResolveMs),
			dominantHost(r.Runs),
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func dominantHost(runs []runResult) string {
	counts := map[string]int{}
	best, bestCount := "", 0
	for _, r := range runs {
		if !r.Success {
			continue
		}
		counts[r.Host]++
		if counts[r.Host] > bestCount {
			best, bestCount = r.Host, counts[r.Host]
		}
	}
	return best
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
