package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/ta-nakaxx/terraria-collection-manager/internal/source"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/config"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/coverage"
)

func main() {
	var (
		input     = flag.String("input", "", "Raw item file: .json, .jsonl or .html (required)")
		rulesPath = flag.String("rules", "", "Rule table YAML (default: built-in tables)")
		asJSON    = flag.Bool("json", false, "Emit the full report as JSON")
		top       = flag.Int("top", 20, "Number of most used keywords to list")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	loader := config.Loader{RulesPath: *rulesPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}

	raws, err := source.LoadRaw(*input, nil)
	if err != nil {
		log.Fatalf("load items: %v", err)
	}
	names := make([]string, len(raws))
	for i, r := range raws {
		names[i] = r.Name
	}

	rep := coverage.Analyze(components.Classifier, names)

	if *asJSON {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Fatalf("marshal report: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	printReport(rep, *top)
}

func printReport(rep coverage.Report, top int) {
	fmt.Printf("Names: %d\n", rep.Names)
	fmt.Printf("Keyword coverage: %.1f%% (%d of %d used)\n",
		rep.Coverage()*100, len(rep.Keywords)-len(rep.Unused), len(rep.Keywords))

	fields := make([]string, 0, len(rep.Defaulted))
	for f := range rep.Defaulted {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	fmt.Println("\nFell through to defaults:")
	for _, f := range fields {
		fmt.Printf("  %-10s %d\n", f, rep.Defaulted[f])
	}

	used := make([]coverage.KeywordStat, 0, len(rep.Keywords))
	for _, k := range rep.Keywords {
		if k.Hits > 0 {
			used = append(used, k)
		}
	}
	sort.SliceStable(used, func(i, j int) bool { return used[i].Hits > used[j].Hits })
	if len(used) > top {
		used = used[:top]
	}
	fmt.Println("\nMost used keywords:")
	for _, k := range used {
		fmt.Printf("  %-7s %-10s %-14s %-20q %d\n", k.Table, k.Domain, k.Group, k.Keyword, k.Hits)
	}

	if len(rep.Unused) > 0 {
		fmt.Println("\nUnused keywords:")
		for _, k := range rep.Unused {
			fmt.Printf("  %-7s %-10s %-14s %q\n", k.Table, k.Domain, k.Group, k.Keyword)
		}
	}
	if len(rep.Unmatched) > 0 {
		fmt.Println("\nNames without a domain match:")
		for _, n := range rep.Unmatched {
			fmt.Printf("  %s\n", n)
		}
	}
}
