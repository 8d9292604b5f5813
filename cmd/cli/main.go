package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/postgres"
)

const dateLayout = "2006-01-02"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gobank-cli",
		Short:         "GoBank CLI tool",
		Long:          `A command line interface for operating a GoBank deployment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(ledgerCmd(), migrateCmd(), loanCmd())
	return root
}

func ledgerCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	ledger := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistency := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			return checkConsistency(cmd.OutOrStdout(), client, baseURL)
		},
	}
	consistency.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoBank API")
	consistency.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledger.AddCommand(consistency)
	return ledger
}

func checkConsistency(out io.Writer, client *http.Client, baseURL string) error {
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("consistency check failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var report dto.ConsistencyResponse
	if err := json.Unmarshal(body, &report); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if err := printJSON(out, report); err != nil {
		return err
	}

	if !report.Consistent {
		return errors.New("ledger is INCONSISTENT")
	}
	fmt.Fprintln(out, "Consistency check PASSED")
	return nil
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
		logLevel       string
	)

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "PostgreSQL schema migrations",
	}
	migrate.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	migrate.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Directory holding migration files")
	migrate.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")

	newLogger := func(cmd *cobra.Command) zerolog.Logger {
		return logger.NewWithWriter(logger.Config{Level: logLevel, Format: "console"}, cmd.ErrOrStderr())
	}
	requireURL := func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			return errors.New("--database-url or DATABASE_URL is required")
		}
		return nil
	}

	up := &cobra.Command{
		Use:     "up",
		Short:   "Apply all pending migrations",
		PreRunE: requireURL,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrations(databaseURL, migrationsPath, newLogger(cmd))
		},
	}

	down := &cobra.Command{
		Use:     "down",
		Short:   "Roll back the last migration",
		PreRunE: requireURL,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrationsDown(databaseURL, migrationsPath, newLogger(cmd))
		},
	}

	version := &cobra.Command{
		Use:     "version",
		Short:   "Print the current schema version",
		PreRunE: requireURL,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, dirty, err := postgres.MigrationVersion(databaseURL, migrationsPath, newLogger(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", v, dirty)
			return nil
		},
	}

	migrate.AddCommand(up, down, version)
	return migrate
}

func loanCmd() *cobra.Command {
	var (
		principal string
		rate      string
		term      int
		start     string
		asJSON    bool
	)

	loan := &cobra.Command{
		Use:   "loan",
		Short: "Loan tools",
	}

	preview := &cobra.Command{
		Use:   "preview",
		Short: "Print the amortization schedule of a loan without creating it",
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, startDate, err := parseTerms(principal, rate, term, start)
			if err != nil {
				return err
			}

			plan, err := domain.Amortize(terms, startDate)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), newPreviewView(plan))
			}
			return printSchedule(cmd.OutOrStdout(), plan)
		},
	}
	preview.Flags().StringVar(&principal, "principal", "", "Loan principal")
	preview.Flags().StringVar(&rate, "rate", "", "Annual interest rate as a fraction, e.g. 0.12")
	preview.Flags().IntVar(&term, "term", 12, "Term in months")
	preview.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	preview.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	_ = preview.MarkFlagRequired("principal")
	_ = preview.MarkFlagRequired("rate")

	loan.AddCommand(preview)
	return loan
}

func parseTerms(principal, rate string, term int, start string) (domain.LoanTerms, time.Time, error) {
	p, err := decimal.NewFromString(principal)
	if err != nil {
		return domain.LoanTerms{}, time.Time{}, fmt.Errorf("invalid principal %q: %w", principal, err)
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return domain.LoanTerms{}, time.Time{}, fmt.Errorf("invalid rate %q: %w", rate, err)
	}

	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if start != "" {
		startDate, err = time.Parse(dateLayout, start)
		if err != nil {
			return domain.LoanTerms{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
	}

	return domain.LoanTerms{Principal: p, AnnualRate: r, TermMonths: term}, startDate, nil
}

type installmentView struct {
	Number    int    `json:"number"`
	DueDate   string `json:"due_date"`
	Amount    string `json:"amount"`
	Interest  string `json:"interest"`
	Principal string `json:"principal"`
	Remaining string `json:"remaining"`
}

type previewView struct {
	EMI          string            `json:"emi"`
	TotalPayable string            `json:"total_payable"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Installments []installmentView `json:"installments"`
}

func newPreviewView(plan *domain.Amortization) previewView {
	view := previewView{
		EMI:          plan.EMI.StringFixed(2),
		TotalPayable: plan.TotalPayable.StringFixed(2),
		StartDate:    plan.StartDate.Format(dateLayout),
		EndDate:      plan.EndDate.Format(dateLayout),
		Installments: make([]installmentView, 0, len(plan.Installments)),
	}
	for _, in := range plan.Installments {
		view.Installments = append(view.Installments, installmentView{
			Number:    in.Number,
			DueDate:   in.DueDate.Format(dateLayout),
			Amount:    in.Amount.StringFixed(2),
			Interest:  in.Interest.StringFixed(2),
			Principal: in.Principal.StringFixed(2),
			Remaining: in.Remaining.StringFixed(2),
		})
	}
	return view
}

func printSchedule(out io.Writer, plan *domain.Amortization) error {
	fmt.Fprintf(out, "EMI: %s  Total payable: %s  Ends: %s\n\n",
		plan.EMI.StringFixed(2), plan.TotalPayable.StringFixed(2), plan.EndDate.Format(dateLayout))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tDue\tAmount\tInterest\tPrincipal\tRemaining\t")
	for _, in := range plan.Installments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			in.Number,
			in.DueDate.Format(dateLayout),
			in.Amount.StringFixed(2),
			in.Interest.StringFixed(2),
			in.Principal.StringFixed(2),
			in.Remaining.StringFixed(2),
		)
	}
	return w.Flush()
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
