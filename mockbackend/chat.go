package mockbackend

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

// sqlRule maps a phrase in the question to the statement answering it.
type sqlRule struct {
	keywords []string
	sql      string
}

// Ordered; the first rule whose keywords all appear wins.
var sqlRules = []sqlRule{
	{[]string{"united states"}, `SELECT * FROM vCustomers WHERE CountryRegion = 'United States'`},
	{[]string{"countr"}, `SELECT DISTINCT c.CountryRegion FROM vCustomers c JOIN vOrderDetails o ON o.CustomerID = c.CustomerID`},
	{[]string{"bike"}, `SELECT ProductID, Name, ProductModel, Description FROM products WHERE Culture = 'en' AND (Description LIKE '%bike%' OR Category LIKE '%bike%')`},
	{[]string{"top", "product"}, `SELECT * FROM vTopProductsSold ORDER BY TotalQty DESC LIMIT 5`},
	{[]string{"top", "customer"}, `SELECT * FROM vTopCustomers ORDER BY Total DESC LIMIT 5`},
	{[]string{"product"}, `SELECT ProductID, Name, ProductModel, Description FROM products WHERE Culture = 'en'`},
	{[]string{"customer"}, `SELECT * FROM vCustomers`},
	{[]string{"order"}, `SELECT * FROM vOrderDetails`},
}

// noMatchSQL yields an empty result set with the customer columns.
const noMatchSQL = `SELECT * FROM vCustomers WHERE 1 = 0`

func matchSQL(input string) string {
	q := strings.ToLower(input)
	for _, rule := range sqlRules {
		all := true
		for _, k := range rule.keywords {
			if !strings.Contains(q, k) {
				all = false
				break
			}
		}
		if all {
			return rule.sql
		}
	}
	return noMatchSQL
}

// bots produces the canned replies of each chat endpoint.
type bots struct {
	repo *Repository
}

func (b bots) chatbot(ctx context.Context, input string) ([]domain.Reply, error) {
	q := strings.ToLower(input)
	var sb strings.Builder
	switch {
	case strings.Contains(q, "product"):
		top, err := b.repo.TopProducts(ctx)
		if err != nil {
			return nil, err
		}
		sb.WriteString("## Top products sold\n\n")
		for i, r := range top.Rows {
			if i == 5 {
				break
			}
			fmt.Fprintf(&sb, "%d. **%s** (%s units)\n", i+1, r.Cell("description"), r.Cell("TotalQty"))
		}
	case strings.Contains(q, "customer") || strings.Contains(q, "balance"):
		top, err := b.repo.TopCustomers(ctx)
		if err != nil {
			return nil, err
		}
		if len(top.Rows) == 0 {
			sb.WriteString("No customers have purchases yet.")
			break
		}
		r := top.Rows[0]
		fmt.Fprintf(&sb, "Dear %s %s,\n\nour records show an outstanding balance of **$%s**.\n\n_AdventureWorks Accounts_",
			r.Cell("FirstName"), r.Cell("LastName"), r.Cell("Total"))
	default:
		fmt.Fprintf(&sb, "You asked: _%s_\n\nI know about **top customers** and **products**. Try `What are the top 5 products sold?`", strings.TrimSpace(input))
	}
	return []domain.Reply{{Role: "assistant", Content: domain.StrPtr(sb.String())}}, nil
}

func (b bots) sqlbot(ctx context.Context, input string) ([]domain.Reply, error) {
	stmt := matchSQL(input)
	grid, err := b.repo.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	content := fmt.Sprintf("```sql\n%s\n```", stmt)
	return []domain.Reply{{Role: "assistant", Content: &content, Columns: grid.Columns, Rows: grid.Rows}}, nil
}

func (b bots) assistants(ctx context.Context, input string) ([]domain.Reply, error) {
	q := strings.ToLower(input)
	if strings.Contains(q, "chart") || strings.Contains(q, "plot") {
		path := "/assets/images/" + uuid.NewString() + ".png"
		return []domain.Reply{
			{Role: "assistant", Content: domain.StrPtr("Here is the chart of **sales by country**.")},
			{Role: "image", Content: &path},
		}, nil
	}
	return b.chatbot(ctx, input)
}

func (b bots) multiagent(ctx context.Context, input string) ([]domain.Reply, error) {
	q := strings.ToLower(input)
	if strings.Contains(q, "weather") || strings.Contains(q, "shipping") {
		return []domain.Reply{{Role: "assistant", Content: domain.StrPtr("Shipping to **Seattle** costs $12.50; the weather there is _light rain_.")}}, nil
	}
	replies, err := b.sqlbot(ctx, input)
	if err != nil {
		return nil, err
	}
	replies[0].Content = domain.StrPtr(fmt.Sprintf("The data agent found **%d** matching rows.", len(replies[0].Rows)))
	return replies, nil
}
