// Command shadow_compare replays read-only requests against the Go
// procurement API and the legacy hospshop Python service side by side
// and diffs the responses. It is the pre-cutover check: a breaking diff
// on a critical endpoint fails the run.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// Fields whose values legitimately differ between the two services
// (ids minted per request, generation timestamps, timing meta).
var volatileFields = map[string]struct{}{
	"request_id":         {},
	"generated_at":       {},
	"timestamp":          {},
	"processing_time_ms": {},
}

type endpoint struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type endpointsFile struct {
	Targets []endpoint `json:"targets"`
}

type diff struct {
	Endpoint       endpoint
	LegacyStatus   int
	NewStatus      int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	NewDuration    time.Duration
	LegacyDuration time.Duration
}

func main() {
	var (
		newBase     string
		legacyBase  string
		targetsPath string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&newBase, "new-base", "http://localhost:8080", "Go procurement API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "legacy hospshop API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "path to JSON targets file")
	flag.StringVar(&token, "token", os.Getenv("SHADOW_COMPARE_TOKEN"), "bearer token sent to both services")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	endpoints, err := loadEndpoints(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		diffs        []diff
		breaking     int
		optionalDiff int
	)

	for _, ep := range endpoints {
		d := compareEndpoint(client, newBase, legacyBase, token, ep)
		if d.Error != nil || !d.StatusMatch || !d.BodyMatch {
			if ep.Critical {
				breaking++
			} else if d.Error == nil {
				optionalDiff++
			}
		}
		diffs = append(diffs, d)
	}

	printReport(diffs)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadEndpoints(path string) ([]endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file endpointsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareEndpoint(client *http.Client, newBase, legacyBase, token string, ep endpoint) diff {
	d := diff{Endpoint: ep}
	newResp, newDur, newErr := performRequest(client, newBase, token, ep)
	legacyResp, legacyDur, legacyErr := performRequest(client, legacyBase, token, ep)
	d.NewDuration = newDur
	d.LegacyDuration = legacyDur

	if newErr != nil {
		d.Error = fmt.Errorf("procurement request failed: %w", newErr)
		return d
	}
	if legacyErr != nil {
		d.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return d
	}

	d.NewStatus = newResp.StatusCode
	d.LegacyStatus = legacyResp.StatusCode
	d.StatusMatch = d.NewStatus == d.LegacyStatus

	defer newResp.Body.Close()
	defer legacyResp.Body.Close()

	newBody, err := io.ReadAll(newResp.Body)
	if err != nil {
		d.Error = fmt.Errorf("read procurement body: %w", err)
		return d
	}
	legacyBody, err := io.ReadAll(legacyResp.Body)
	if err != nil {
		d.Error = fmt.Errorf("read legacy body: %w", err)
		return d
	}

	d.BodyMatch = bodiesEqual(newBody, legacyBody)

	return d
}

func performRequest(client *http.Client, base, token string, ep endpoint) (*http.Response, time.Duration, error) {
	if client == nil {
		return nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(ep.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := ep.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
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
	return resp, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

// normalize strips volatile fields and collapses whole floats so that
// FastAPI's 100 and Go's 100.0 compare equal.
func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if _, volatile := volatileFields[k]; volatile {
				delete(val, k)
				continue
			}
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []diff) {
	fmt.Println("Procurement API Shadow Report")
	fmt.Println("=============================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Endpoint.Method, res.Endpoint.Path)
		fmt.Printf("  Procurement: %d (%s)\n", res.NewStatus, res.NewDuration)
		fmt.Printf("  Legacy:      %d (%s)\n", res.LegacyStatus, res.LegacyDuration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Endpoint.Critical)
		}
	}
}
