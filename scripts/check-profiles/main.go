// check-profiles: probes the RPC endpoint of every configured profile in
// parallel and prints a summary table.
//
// Run from the module root:
//
//	EVOLUTE_DATA_DIR=./data go run ./scripts/check-profiles
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/rpc"
)

const rpcTimeout = 12 * time.Second

// ── types ─────────────────────────────────────────────────────────────────────

type result struct {
	name    string
	active  bool
	rpcURL  string
	chainID string
	block   string
	latency string
	err     string
}

// ── main ──────────────────────────────────────────────────────────────────────

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	env, err := config.LoadDefaultProfileEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "environment:", err)
		os.Exit(1)
	}
	repo := profile.NewRepository(profile.NewJSONStore(cfg.ProfilesPath()), profile.StaticEnv(env), log)
	l := profile.NewService(repo, profile.WithLogger(log)).List()

	results := make([]result, len(l.Profiles))
	var wg sync.WaitGroup
	for i, p := range l.Profiles {
		wg.Add(1)
		go func(i int, p profile.Profile) {
			defer wg.Done()

			r := result{
				name:   p.Name,
				active: l.ActiveProfile != nil && l.ActiveProfile.ID == p.ID,
				rpcURL: p.RPCURL,
				block:  "—",
			}
			if p.RPCURL == profile.NotConfigured {
				r.err = "not configured"
				results[i] = r
				return
			}

			ep, err := rpc.HealthCheck(context.Background(), p.RPCURL, rpcTimeout)
			if err != nil {
				r.err = shortErr(err)
			} else {
				r.chainID = ep.ChainID
				r.block = fmt.Sprintf("%d", ep.BlockNumber)
				r.latency = ep.Latency.Round(time.Millisecond).String()
			}
			results[i] = r
		}(i, p)
	}
	wg.Wait()

	printTable(results)
}

// ── output ────────────────────────────────────────────────────────────────────

func printTable(results []result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "\tPROFILE\tRPC\tCHAIN\tBLOCK\tLATENCY\tNOTE")
	fmt.Fprintln(w, "\t"+strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 28)+"\t"+
		strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 9)+"\t"+
		strings.Repeat("-", 7)+"\t"+
		strings.Repeat("-", 12))

	healthy := 0
	for _, r := range results {
		marker := ""
		if r.active {
			marker = "*"
		}
		if r.err == "" {
			healthy++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			marker, r.name, r.rpcURL, r.chainID, r.block, r.latency, r.err)
	}
	w.Flush()

	fmt.Printf("\n%d/%d profiles reachable\n", healthy, len(results))
}

// shortErr trims long RPC errors to something that fits in a table cell.
func shortErr(err error) string {
	s := err.Error()
	if len(s) > 40 {
		return s[:40] + "…"
	}
	return s
}
