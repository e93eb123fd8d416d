package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/leadcsv"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/session"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a lead file against an offer and print the results",
	Long: `Runs one scoring session end to end: loads the offer, ingests the
leads, classifies buying intent for every lead and prints the scored batch.

The offer file is JSON with name, value_props and ideal_use_cases. The lead
file is CSV (or .xlsx) with a header row; the columns name, role, company,
industry, location and linkedin_bio are used for scoring.

Examples:
  # Score with the configured provider, print a table
  score --offer offer.json --leads leads.csv

  # Rank by score and export CSV
  score --offer offer.json --leads leads.csv --sort score --format csv --output scored.csv

  # AI points only, no network calls
  LEADSCORE_LLM_PROVIDER=stub score --offer offer.json --leads leads.csv --mode ai_only`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("offer", "", "path to the offer JSON file")
	f.String("leads", "", "path to the lead CSV or XLSX file")
	f.String("mode", "", "scoring mode: combined or ai_only (overrides config)")
	f.Int("concurrency", 0, "leads classified at once (overrides config)")
	f.String("sort", "", "result order: empty for upload order, score for descending score")
	f.String("format", "table", "output format: table, json or csv")
	f.String("output", "", "output file path (default: stdout)")
	_ = scoreCmd.MarkFlagRequired("offer")
	_ = scoreCmd.MarkFlagRequired("leads")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	offerPath, _ := cmd.Flags().GetString("offer")
	leadsPath, _ := cmd.Flags().GetString("leads")
	mode, _ := cmd.Flags().GetString("mode")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	sortBy, _ := cmd.Flags().GetString("sort")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	switch format {
	case "table", "json", "csv":
	default:
		return eris.Errorf("score: --format must be table, json or csv (got %q)", format)
	}
	if sortBy != "" && sortBy != "score" {
		return eris.Errorf("score: --sort must be empty or score (got %q)", sortBy)
	}

	if mode != "" {
		cfg.Scoring.Mode = mode
	}
	if concurrency > 0 {
		cfg.Scoring.Concurrency = concurrency
	}
	if err := cfg.Validate("score"); err != nil {
		return eris.Wrap(err, "config: validation failed")
	}

	sess, err := initSession(cfg)
	if err != nil {
		return err
	}

	if err := loadOffer(sess, offerPath); err != nil {
		return err
	}
	if err := loadLeads(sess, leadsPath); err != nil {
		return err
	}

	res, err := sess.Run(ctx)
	if err != nil {
		return eris.Wrap(err, "score: run")
	}

	leads := res.Leads
	if sortBy == "score" {
		leads = model.RankByScore(leads)
	}

	zap.L().Info("scoring complete",
		zap.String("run_id", res.RunID),
		zap.Int("leads", len(leads)),
	)

	return outputScoredLeads(leads, format, outputPath)
}

func loadOffer(sess *session.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "score: read offer %s", path)
	}
	var offer model.Offer
	if err := json.Unmarshal(data, &offer); err != nil {
		return eris.Wrapf(err, "score: parse offer %s", path)
	}
	return sess.SubmitOffer(offer)
}

func loadLeads(sess *session.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "score: open leads %s", path)
	}
	defer f.Close() //nolint:errcheck

	n, err := sess.SubmitLeadsFile(path, f)
	if err != nil {
		return err
	}
	if n == 0 {
		return eris.Errorf("score: %s has no lead rows", path)
	}
	return nil
}

func outputScoredLeads(leads []model.ScoredLead, format, outputPath string) error {
	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	switch format {
	case "csv":
		return leadcsv.Write(w, leads)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(leads), "score: write json")
	case "table":
		return writeScoreTable(w, leads)
	default:
		return eris.Errorf("score: unsupported format %q", format)
	}
}

func writeScoreTable(w io.Writer, leads []model.ScoredLead) error {
	header := fmt.Sprintf("%-25s %-30s %-25s %-7s %5s\n",
		"Name", "Role", "Company", "Intent", "Score")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 96)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}

	for _, l := range leads {
		line := fmt.Sprintf("%-25s %-30s %-25s %-7s %5d\n",
			truncate(l.Name, 25), truncate(l.Role, 30), truncate(l.Company, 25), l.Intent, l.Score)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
