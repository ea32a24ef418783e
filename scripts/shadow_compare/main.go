// Command shadow_compare replays a list of read-only endpoints against the
// Go session API and the legacy service and reports any response
// drift. Run it against both stacks during cutover:
//
//	go run ./scripts/shadow_compare -go-base http://localhost:8080 -legacy-base http://localhost:5000 -token <jwt>
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Auth     bool   `json:"auth"`
	Critical bool   `json:"critical"`
}

type response struct {
	status  int
	body    []byte
	elapsed time.Duration
}

type result struct {
	target   target
	goResp   *response
	oldResp  *response
	err      error
	statusOK bool
	bodyOK   bool
}

func (r result) verdict() string {
	switch {
	case r.err != nil:
		return "ERROR"
	case !r.statusOK || !r.bodyOK:
		return "DIFF"
	default:
		return "OK"
	}
}

func main() {
	goBase := flag.String("go-base", "http://localhost:8080", "Go session API base URL")
	legacyBase := flag.String("legacy-base", "http://localhost:5000", "Legacy API base URL")
	token := flag.String("token", "", "Bearer token used for authenticated targets")
	targetsPath := flag.String("targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(*targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: *timeout}
	var results []result
	breaking, optional := 0, 0

	for _, t := range targets {
		if t.Auth && *token == "" {
			log.Printf("skipping %s %s: authenticated target and no -token provided", t.Method, t.Path)
			continue
		}
		res := compare(client, *goBase, *legacyBase, *token, t)
		if res.verdict() != "OK" {
			if t.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	report(os.Stdout, results)
	fmt.Printf("\nBreaking diffs: %d, optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg struct {
		Targets []target `json:"targets"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compare(client *http.Client, goBase, legacyBase, token string, tgt target) result {
	res := result{target: tgt}

	goResp, err := fetch(client, goBase, token, tgt)
	if err != nil {
		res.err = fmt.Errorf("go request failed: %w", err)
		return res
	}
	res.goResp = goResp

	oldResp, err := fetch(client, legacyBase, token, tgt)
	if err != nil {
		res.err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}
	res.oldResp = oldResp

	res.statusOK = goResp.status == oldResp.status
	res.bodyOK = bodiesEqual(goResp.body, oldResp.body)
	return res
}

func fetch(client *http.Client, base, token string, tgt target) (*response, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	url := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(tgt.Path, "/")

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}
	if tgt.Auth && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &response{status: resp.StatusCode, body: body, elapsed: time.Since(start)}, nil
}

// bodiesEqual compares bodies byte for byte first, then falls back to a
// normalised JSON comparison so key order and number formatting differences
// between the two stacks do not count as drift.
func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if json.Unmarshal(a, &aj) != nil || json.Unmarshal(b, &bj) != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
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

func report(out io.Writer, results []result) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERDICT\tMETHOD\tPATH\tGO\tLEGACY\tGO TIME\tLEGACY TIME")
	for _, res := range results {
		goStatus, oldStatus := "-", "-"
		goTime, oldTime := "-", "-"
		if res.goResp != nil {
			goStatus = fmt.Sprintf("%d", res.goResp.status)
			goTime = res.goResp.elapsed.Round(time.Millisecond).String()
		}
		if res.oldResp != nil {
			oldStatus = fmt.Sprintf("%d", res.oldResp.status)
			oldTime = res.oldResp.elapsed.Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			res.verdict(), res.target.Method, res.target.Path, goStatus, oldStatus, goTime, oldTime)
		if res.err != nil {
			fmt.Fprintf(w, "\t\t%s\t\t\t\t\n", res.err.Error())
		}
	}
	w.Flush()
}
