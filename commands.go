package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	jmespath "github.com/jmespath/go-jmespath"
	"github.com/spf13/cobra"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/gateway"
	"github.com/FBakkensen/aw-viewer-tui/logging"
	"github.com/FBakkensen/aw-viewer-tui/mockbackend"
)

func newCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Print the dashboard record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			return printCounts(cmd.Context(), cmd.OutOrStdout(), gateway.NewClientFromConfig(cfg))
		},
	}
}

func newGridCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "grid <dataset>",
		Short: "Fetch a dataset and print it as a table or filtered JSON",
		Long: `Fetch one of the dashboard datasets (customers, sales, products, sold,
orders) and print it as a table.

With --query the grid JSON ({"columns": [...], "rows": [...]}) is filtered
through a JMESPath expression and printed as indented JSON instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := domain.ParseDataset(args[0])
			if err != nil {
				return err
			}
			cfg := loadConfig(cmd)
			return printGrid(cmd.Context(), cmd.OutOrStdout(), gateway.NewClientFromConfig(cfg), ds, query)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "JMESPath expression applied to the grid JSON")
	return cmd
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Send one chat input in the configured mode and print the replies",
		Long: `Send a single chat input to the endpoint of the mode chosen with --mode
(or the configured default) and print the replies. Grid results returned by
SqlBot are printed as a table below the answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			mode, err := domain.ParseMode(cfg.Mode)
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")
			return ask(cmd.Context(), cmd.OutOrStdout(), gateway.NewClientFromConfig(cfg), mode, input)
		},
	}
}

func newMockBackendCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "mock-backend",
		Short: "Serve the demo AdventureWorks backend locally",
		Long: `Serve an in-memory AdventureWorks backend with the same HTTP API the
viewer talks to. Point the viewer at it with --base-url http://<addr>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Mock backend listening on %s (Ctrl+C to stop)\n", addr)
			return mockbackend.Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")
	return cmd
}

var (
	cliHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cliCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	cliLabelStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cliHeaderStyle
			}
			return cliCellStyle
		})
}

func printCounts(ctx context.Context, w io.Writer, client *gateway.Client) error {
	counts, err := client.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch record counts: %w", err)
	}
	t := newTable("Key", "Dataset", "Records")
	for i, ds := range domain.AllDatasets {
		t.Row(fmt.Sprintf("F%d", i+1), ds.Title(), humanize.Comma(int64(ds.Count(counts))))
	}
	_, err = fmt.Fprintln(w, t.Render())
	return err
}

func printGrid(ctx context.Context, w io.Writer, client *gateway.Client, ds domain.Dataset, query string) error {
	grid, err := client.Dataset(ctx, ds)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", ds.Title(), err)
	}
	if strings.TrimSpace(query) != "" {
		out, err := applyJMESPath(grid, query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	_, err = fmt.Fprintln(w, gridTable(grid))
	if err == nil {
		_, err = fmt.Fprintf(w, "%s rows\n", humanize.Comma(int64(len(grid.Rows))))
	}
	return err
}

func gridTable(grid domain.GridData) string {
	t := newTable(grid.Headers()...)
	for _, row := range grid.Rows {
		cells := make([]string, len(grid.Columns))
		for i, c := range grid.Columns {
			cells[i] = row.Cell(c.Key)
		}
		t.Row(cells...)
	}
	return t.Render()
}

// applyJMESPath runs expr against the grid as generic JSON.
func applyJMESPath(grid domain.GridData, expr string) (string, error) {
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression: %w", err)
	}
	raw, err := json.Marshal(grid)
	if err != nil {
		return "", err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", err
	}
	result, err := jp.Search(doc)
	if err != nil {
		return "", fmt.Errorf("JMESPath evaluation failed: %w", err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func ask(ctx context.Context, w io.Writer, client *gateway.Client, mode domain.Mode, input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty question")
	}
	if _, ok := mode.Endpoint(); !ok {
		return fmt.Errorf("mode %s has no chat endpoint: %w", mode, domain.ErrNoEndpoint)
	}
	logging.Info("Sending chat input", "mode", mode.String(), "length", fmt.Sprintf("%d", len(input)))

	replies, err := client.Chat(ctx, mode, input)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", mode, err)
	}
	for _, r := range replies {
		text := ""
		if r.Content != nil {
			text = *r.Content
		}
		switch domain.MapRole(r.Role) {
		case domain.RoleImage:
			fmt.Fprintf(w, "[image] %s\n", imageURL(client.BaseURL(), text))
		case domain.RoleUser:
			fmt.Fprintf(w, "%s %s\n", cliLabelStyle.Render("You:"), text)
		default:
			fmt.Fprintf(w, "%s %s\n", cliLabelStyle.Render(mode.String()+":"), text)
		}
		if mode.ReturnsGrid() && r.HasTable() {
			if len(r.Rows) == 0 {
				fmt.Fprintln(w, "(no rows)")
				continue
			}
			fmt.Fprintln(w, gridTable(domain.GridData{Columns: r.Columns, Rows: r.Rows}))
		}
	}
	return nil
}

func imageURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
