package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hiringdesk/resume-intake/internal/scoring"
	"hiringdesk/resume-intake/internal/services"
)

var scoreCmd = &cobra.Command{
	Use:   "score FILE...",
	Short: "Score resume files without storing them",
	Long:  "Score PDF or plain-text resumes with the sales fresher rules and print the breakdown and auto-hire decision.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

var scoreJSON bool

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print results as JSON lines")

	rootCmd.AddCommand(scoreCmd)
}

type scoredFile struct {
	File     string                 `json:"file"`
	Result   scoring.Result         `json:"result"`
	AutoHire scoring.AutoHireResult `json:"auto_hire"`
}

func runScore(cmd *cobra.Command, args []string) error {
	return scoreFiles(cmd.OutOrStdout(), services.NewPDFParserService(), args, scoreJSON)
}

func scoreFiles(w io.Writer, parser services.PDFParserService, paths []string, asJSON bool) error {
	results := make([]scoredFile, 0, len(paths))
	for _, path := range paths {
		text, err := readResumeText(parser, path)
		if err != nil {
			return err
		}
		result := scoring.ScoreSalesFresher(text)
		results = append(results, scoredFile{
			File:     path,
			Result:   result,
			AutoHire: scoring.AutoHireDecision(float64(result.Score), text),
		})
	}

	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSCORE\tVERDICT\tKEYWORDS\tEXPERIENCE\tTECH\tQUALITY\tAUTO-HIRE")
	for _, r := range results {
		b := r.Result.Breakdown
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.File, r.Result.Score, r.Result.Verdict, b.Keywords, b.Experience, b.Tech, b.Quality, r.AutoHire.Verdict)
	}
	return tw.Flush()
}

func readResumeText(parser services.PDFParserService, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := parser.ExtractText(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return text, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(raw), nil
}
