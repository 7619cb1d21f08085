package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
)

// creditResponse mirrors the API balance body
type creditResponse struct {
	UserID      uint64    `json:"user_id"`
	Credits     int64     `json:"credits"`
	LastUpdated time.Time `json:"last_updated"`
}

// scenario is one kind of request the load test sends
type scenario struct {
	Name   string
	Path   string // "add" or "deduct"
	Amount int64
}

// requestResult contains metrics for a single request
type requestResult struct {
	UserID       uint64
	Scenario     scenario
	StatusCode   int
	ResponseTime time.Duration
	Err          error
}

// stats aggregates results and tracks the balance each user should end with
type stats struct {
	mu            sync.Mutex
	total         int
	succeeded     int
	insufficient  int
	failed        int
	responseTimes []time.Duration
	errorCounts   map[string]int
	expectedDelta map[uint64]int64
	scenarioCount map[string]int
}

func (s *stats) record(r requestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.responseTimes = append(s.responseTimes, r.ResponseTime)
	s.scenarioCount[r.Scenario.Name]++

	switch {
	case r.Err != nil:
		s.failed++
		s.errorCounts[r.Err.Error()]++
	case r.StatusCode == http.StatusOK:
		s.succeeded++
		if r.Scenario.Path == "add" {
			s.expectedDelta[r.UserID] += r.Scenario.Amount
		} else {
			s.expectedDelta[r.UserID] -= r.Scenario.Amount
		}
	case r.StatusCode == http.StatusBadRequest && r.Scenario.Path == "deduct":
		// insufficient balance is a valid outcome under contention
		s.insufficient++
	default:
		s.failed++
		s.errorCounts[fmt.Sprintf("HTTP status code %d", r.StatusCode)]++
	}
}

func main() {
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	totalRequests := flag.Int("n", 500, "Total number of requests to make")
	userIDsStr := flag.String("u", "1,2,3", "Comma-separated list of user IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 0, "Delay before each request in milliseconds")
	flag.Parse()

	userIDs := parseUserIDs(*userIDsStr)
	scenarios := []scenario{
		{"Add Small", "add", 1},
		{"Add Large", "add", 10},
		{"Deduct Small", "deduct", 1},
		{"Deduct Large", "deduct", 8},
	}
	client := &http.Client{Timeout: 10 * time.Second}

	before := make(map[uint64]int64, len(userIDs))
	for _, id := range userIDs {
		c, err := getCredits(client, *baseURL, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read initial balance of user %d: %v\n", id, err)
			os.Exit(1)
		}
		before[id] = c.Credits
	}

	fmt.Printf("Load testing %s across users %v\n", *baseURL, userIDs)
	fmt.Printf("Concurrency: %d, requests: %d, delay: %d ms\n", *concurrency, *totalRequests, *delayMs)

	st := &stats{
		total:         *totalRequests,
		errorCounts:   make(map[string]int),
		expectedDelta: make(map[uint64]int64),
		scenarioCount: make(map[string]int),
		responseTimes: make([]time.Duration, 0, *totalRequests),
	}

	pool := pond.NewPool(*concurrency)
	start := time.Now()
	for i := 0; i < *totalRequests; i++ {
		userID := userIDs[rand.Intn(len(userIDs))]
		sc := scenarios[rand.Intn(len(scenarios))]
		pool.Submit(func() {
			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
			st.record(send(client, *baseURL, userID, sc))
		})
	}
	pool.StopAndWait()
	elapsed := time.Since(start)

	printResults(st, elapsed)

	// a daily bonus firing during the run shows up as a +5 mismatch
	consistent := true
	fmt.Println("\n----------------- BALANCE CHECK -----------------")
	for _, id := range userIDs {
		c, err := getCredits(client, *baseURL, id)
		if err != nil {
			fmt.Printf("User %d: cannot read final balance: %v\n", id, err)
			consistent = false
			continue
		}
		want := before[id] + st.expectedDelta[id]
		mark := "ok"
		if c.Credits != want {
			mark = "MISMATCH"
			consistent = false
		}
		fmt.Printf("User %d: before=%d expected=%d actual=%d %s\n", id, before[id], want, c.Credits, mark)
	}

	if !consistent {
		os.Exit(2)
	}
}

func parseUserIDs(raw string) []uint64 {
	var ids []uint64
	for _, s := range strings.Split(raw, ",") {
		var id uint64
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &id); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = []uint64{1}
	}
	return ids
}

func getCredits(client *http.Client, baseURL string, userID uint64) (*creditResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/api/credits/%d", baseURL, userID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	var c creditResponse
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func send(client *http.Client, baseURL string, userID uint64, sc scenario) requestResult {
	result := requestResult{UserID: userID, Scenario: sc}

	body, err := json.Marshal(map[string]int64{"amount": sc.Amount})
	if err != nil {
		result.Err = err
		return result
	}

	url := fmt.Sprintf("%s/api/credits/%d/%s", baseURL, userID, sc.Path)
	start := time.Now()
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}
	resp.Body.Close()

	result.StatusCode = resp.StatusCode
	return result
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func printResults(st *stats, elapsed time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sorted := make([]time.Duration, len(st.responseTimes))
	copy(sorted, st.responseTimes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	var avg time.Duration
	if len(sorted) > 0 {
		avg = sum / time.Duration(len(sorted))
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:        %d\n", st.total)
	fmt.Printf("Successful Requests:   %d\n", st.succeeded)
	fmt.Printf("Insufficient Balance:  %d\n", st.insufficient)
	fmt.Printf("Failed Requests:       %d\n", st.failed)
	fmt.Printf("Total Test Time:       %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Throughput:            %.2f req/s\n", float64(st.total)/elapsed.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average:  %v\n", avg)
	fmt.Printf("P50:      %v\n", percentile(sorted, 50))
	fmt.Printf("P90:      %v\n", percentile(sorted, 90))
	fmt.Printf("P99:      %v\n", percentile(sorted, 99))
	if len(sorted) > 0 {
		fmt.Printf("Max:      %v\n", sorted[len(sorted)-1])
	}

	fmt.Println("\n----------------- SCENARIOS -----------------")
	for name, count := range st.scenarioCount {
		fmt.Printf("%-15s: %d\n", name, count)
	}

	if len(st.errorCounts) > 0 {
		fmt.Println("\n----------------- ERRORS -----------------")
		for msg, count := range st.errorCounts {
			fmt.Printf("%-40s: %d\n", msg, count)
		}
	}
}
