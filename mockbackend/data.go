package mockbackend

// In-memory AdventureWorks sample served by the demo backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

var schema = []string{
	`CREATE TABLE customers (
		CustomerID INTEGER PRIMARY KEY,
		LastName TEXT NOT NULL,
		FirstName TEXT NOT NULL,
		EmailAddress TEXT,
		SalesPerson TEXT,
		City TEXT,
		StateProvince TEXT,
		CountryRegion TEXT
	)`,
	`CREATE TABLE products (
		ProductID INTEGER PRIMARY KEY,
		Name TEXT NOT NULL,
		ProductModel TEXT,
		Category TEXT,
		Culture TEXT NOT NULL DEFAULT 'en',
		Description TEXT,
		ListPrice REAL
	)`,
	`CREATE TABLE order_details (
		SalesOrderID INTEGER NOT NULL,
		CustomerID INTEGER NOT NULL REFERENCES customers(CustomerID),
		ProductID INTEGER NOT NULL REFERENCES products(ProductID),
		OrderQty INTEGER NOT NULL,
		UnitPrice REAL NOT NULL,
		UnitPriceDiscount REAL NOT NULL DEFAULT 0
	)`,
	`CREATE VIEW vCustomers AS
		SELECT c.CustomerID, c.LastName, c.FirstName, c.EmailAddress, c.SalesPerson,
			c.City, c.StateProvince, c.CountryRegion,
			COUNT(DISTINCT o.SalesOrderID) AS Orders,
			ROUND(COALESCE(SUM(o.OrderQty * o.UnitPrice * (1 - o.UnitPriceDiscount)), 0), 2) AS TotalDue
		FROM customers c LEFT JOIN order_details o ON o.CustomerID = c.CustomerID
		GROUP BY c.CustomerID`,
	`CREATE VIEW vOrderDetails AS
		SELECT o.CustomerID, o.SalesOrderID, o.ProductID, p.Category, p.ProductModel AS Model,
			p.Description, o.OrderQty, o.UnitPrice, o.UnitPriceDiscount,
			ROUND(o.OrderQty * o.UnitPrice * (1 - o.UnitPriceDiscount), 2) AS LineTotal
		FROM order_details o JOIN products p ON p.ProductID = o.ProductID`,
	`CREATE VIEW vTopCustomers AS
		SELECT CustomerID, LastName, FirstName, EmailAddress, SalesPerson, City, StateProvince,
			CountryRegion, TotalDue AS Total
		FROM vCustomers WHERE TotalDue > 0`,
	`CREATE VIEW vTopProductsSold AS
		SELECT p.ProductID AS ProductId, p.Category AS category, p.ProductModel AS model,
			p.Description AS description, SUM(o.OrderQty) AS TotalQty
		FROM order_details o JOIN products p ON p.ProductID = o.ProductID
		GROUP BY p.ProductID`,
}

var seed = []string{
	`INSERT INTO customers VALUES
		(29485, 'Abel', 'Catherine', 'catherine0@adventure-works.com', 'adventure-works\linda3', 'Toronto', 'Ontario', 'Canada'),
		(29486, 'Abercrombie', 'Kim', 'kim2@adventure-works.com', 'adventure-works\shu0', 'Fort Worth', 'Texas', 'United States'),
		(29489, 'Adams', 'Frances', 'frances0@adventure-works.com', 'adventure-works\jillian0', 'Redmond', 'Washington', 'United States'),
		(29490, 'Adams', 'Jay', 'jay1@adventure-works.com', 'adventure-works\jose1', 'London', 'England', 'United Kingdom'),
		(29492, 'Adina', 'Ronald', 'ronald0@adventure-works.com', 'adventure-works\pamela0', 'Bothell', 'Washington', 'United States'),
		(29494, 'Agcaoili', 'Samuel', 'samuel0@adventure-works.com', 'adventure-works\linda3', 'Vancouver', 'British Columbia', 'Canada'),
		(29496, 'Ahlering', 'Robert', 'robert1@adventure-works.com', 'adventure-works\shu0', 'Paris', 'Seine (Paris)', 'France'),
		(29497, 'Akers', 'Kim', 'kim3@adventure-works.com', 'adventure-works\jillian0', 'Berlin', 'Hamburg', 'Germany')`,
	`INSERT INTO products (ProductID, Name, ProductModel, Category, Description, ListPrice) VALUES
		(680, 'HL Road Frame - Black, 58', 'HL Road Frame', 'Road Frames', 'Our lightest and best quality aluminum frame.', 1431.50),
		(706, 'HL Road Frame - Red, 58', 'HL Road Frame', 'Road Frames', 'Our lightest and best quality aluminum frame.', 1431.50),
		(712, 'AWC Logo Cap', 'Cycling Cap', 'Caps', 'Traditional style with a flip-up brim.', 8.99),
		(749, 'Road-150 Red, 62', 'Road-150', 'Road Bikes', 'This bike is ridden by race winners.', 3578.27),
		(771, 'Mountain-100 Silver, 38', 'Mountain-100', 'Mountain Bikes', 'Top-of-the-line competition mountain bike.', 3399.99),
		(836, 'ML Road Frame-W - Yellow, 48', 'ML Road Frame-W', 'Road Frames', 'Same technology as all of our Road series bikes.', 594.83),
		(870, 'Water Bottle - 30 oz.', 'Water Bottle', 'Bottles and Cages', 'AWC logo water bottle.', 4.99),
		(907, 'Rear Brakes', 'Rear Brakes', 'Brakes', 'All-weather brake pads.', 106.50),
		(999, 'Road-750 Black, 52', 'Road-750', 'Road Bikes', 'Entry level adult bike.', 539.99)`,
	`INSERT INTO products (ProductID, Name, ProductModel, Category, Culture, Description, ListPrice) VALUES
		(1749, 'Road-150 Rouge, 62', 'Road-150', 'Road Bikes', 'fr', 'Ce vélo de course est idéal.', 3578.27)`,
	`INSERT INTO order_details VALUES
		(71774, 29485, 836, 1, 356.898, 0),
		(71774, 29485, 870, 4, 2.994, 0),
		(71776, 29486, 749, 2, 2146.962, 0.05),
		(71780, 29489, 712, 10, 5.394, 0),
		(71780, 29489, 907, 3, 63.90, 0),
		(71782, 29492, 771, 1, 2039.994, 0),
		(71782, 29492, 680, 2, 858.90, 0.02),
		(71783, 29494, 999, 5, 323.994, 0),
		(71784, 29496, 870, 12, 2.994, 0),
		(71784, 29496, 712, 6, 5.394, 0)`,
}

// Repository reads the sample data.
type Repository struct {
	db *sql.DB
}

// OpenRepository creates and seeds a private in-memory database.
func OpenRepository(ctx context.Context) (*Repository, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open sample database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	for _, stmt := range append(append([]string{}, schema...), seed...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize sample database: %w", err)
		}
	}
	return &Repository{db: db}, nil
}

// Close releases the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Customers returns every customer ordered by name.
func (r *Repository) Customers(ctx context.Context) (domain.GridData, error) {
	return r.Query(ctx, `SELECT * FROM vCustomers ORDER BY LastName, FirstName`)
}

// TopCustomers returns customers with purchases, biggest first.
func (r *Repository) TopCustomers(ctx context.Context) (domain.GridData, error) {
	return r.Query(ctx, `SELECT * FROM vTopCustomers ORDER BY Total DESC`)
}

// Products returns the English product catalog.
func (r *Repository) Products(ctx context.Context) (domain.GridData, error) {
	return r.Query(ctx, `SELECT ProductID, Name, ProductModel, Description FROM products
		WHERE Culture = 'en' ORDER BY Description`)
}

// TopProducts returns sold products by quantity.
func (r *Repository) TopProducts(ctx context.Context) (domain.GridData, error) {
	return r.Query(ctx, `SELECT * FROM vTopProductsSold ORDER BY TotalQty DESC`)
}

// OrderDetails returns every order line.
func (r *Repository) OrderDetails(ctx context.Context) (domain.GridData, error) {
	return r.Query(ctx, `SELECT * FROM vOrderDetails ORDER BY OrderQty DESC`)
}

// Dataset dispatches to the query backing ds.
func (r *Repository) Dataset(ctx context.Context, ds domain.Dataset) (domain.GridData, error) {
	switch ds {
	case domain.DatasetCustomers:
		return r.Customers(ctx)
	case domain.DatasetTopCustomers:
		return r.TopCustomers(ctx)
	case domain.DatasetProducts:
		return r.Products(ctx)
	case domain.DatasetTopProducts:
		return r.TopProducts(ctx)
	case domain.DatasetOrders:
		return r.OrderDetails(ctx)
	}
	return domain.GridData{}, fmt.Errorf("unknown dataset %d", int(ds))
}

// Counts returns the row count of every dataset.
func (r *Repository) Counts(ctx context.Context) (domain.RecordCounts, error) {
	var c domain.RecordCounts
	targets := []struct {
		sql string
		dst *int
	}{
		{`SELECT COUNT(*) FROM vCustomers`, &c.Customers},
		{`SELECT COUNT(*) FROM vTopCustomers`, &c.TopCustomers},
		{`SELECT COUNT(*) FROM products WHERE Culture = 'en'`, &c.Products},
		{`SELECT COUNT(*) FROM vTopProductsSold`, &c.TopProducts},
		{`SELECT COUNT(*) FROM vOrderDetails`, &c.OrderDetails},
	}
	for _, t := range targets {
		if err := r.db.QueryRowContext(ctx, t.sql).Scan(t.dst); err != nil {
			return domain.RecordCounts{}, fmt.Errorf("count failed: %w", err)
		}
	}
	return c, nil
}

// Query runs a read-only statement and shapes the result as a grid. Every
// column is resizable, keyed and named by its SQL name.
func (r *Repository) Query(ctx context.Context, query string) (domain.GridData, error) {
	if !isReadOnly(query) {
		return domain.GridData{}, fmt.Errorf("only SELECT statements are allowed")
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return domain.GridData{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return domain.GridData{}, fmt.Errorf("failed to read columns: %w", err)
	}
	out := domain.GridData{Columns: make([]domain.Column, len(names)), Rows: []domain.Row{}}
	for i, n := range names {
		out.Columns[i] = domain.Column{Key: n, Name: n, Resizable: true}
	}
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return domain.GridData{}, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(domain.Row, len(names))
		for i, n := range names {
			if b, ok := vals[i].([]byte); ok {
				row[n] = string(b)
				continue
			}
			row[n] = vals[i]
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return domain.GridData{}, fmt.Errorf("row iteration failed: %w", err)
	}
	return out, nil
}

func isReadOnly(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.HasPrefix(q, "select") || strings.HasPrefix(q, "with")
}
