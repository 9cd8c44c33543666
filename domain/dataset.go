package domain

import (
	"fmt"
	"strings"
)

// Dataset identifies one of the fixed grid sources.
type Dataset int

const (
	DatasetCustomers Dataset = iota
	DatasetTopCustomers
	DatasetProducts
	DatasetTopProducts
	DatasetOrders
)

// AllDatasets lists the datasets in tile order.
var AllDatasets = []Dataset{DatasetCustomers, DatasetTopCustomers, DatasetProducts, DatasetTopProducts, DatasetOrders}

// ID returns the tile identifier used by the loader.
func (d Dataset) ID() string {
	switch d {
	case DatasetCustomers:
		return "customers"
	case DatasetTopCustomers:
		return "sales"
	case DatasetProducts:
		return "products"
	case DatasetTopProducts:
		return "sold"
	case DatasetOrders:
		return "orders"
	default:
		return fmt.Sprintf("dataset(%d)", int(d))
	}
}

// Title returns the tile caption.
func (d Dataset) Title() string {
	switch d {
	case DatasetCustomers:
		return "Customers"
	case DatasetTopCustomers:
		return "Top Customers"
	case DatasetProducts:
		return "Products"
	case DatasetTopProducts:
		return "Top Products"
	case DatasetOrders:
		return "Orders"
	default:
		return d.ID()
	}
}

// Path returns the backend path serving the dataset.
func (d Dataset) Path() string {
	switch d {
	case DatasetCustomers:
		return "/api/customers"
	case DatasetTopCustomers:
		return "/api/customers/top"
	case DatasetProducts:
		return "/api/products"
	case DatasetTopProducts:
		return "/api/products/sold"
	case DatasetOrders:
		return "/api/orders"
	default:
		return ""
	}
}

// Count picks the tile count for the dataset.
func (d Dataset) Count(c RecordCounts) int {
	switch d {
	case DatasetCustomers:
		return c.Customers
	case DatasetTopCustomers:
		return c.TopCustomers
	case DatasetProducts:
		return c.Products
	case DatasetTopProducts:
		return c.TopProducts
	case DatasetOrders:
		return c.OrderDetails
	default:
		return 0
	}
}

// ParseDataset accepts the tile identifiers and their descriptive aliases.
func ParseDataset(s string) (Dataset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customers":
		return DatasetCustomers, nil
	case "sales", "topcustomers", "top-customers":
		return DatasetTopCustomers, nil
	case "products":
		return DatasetProducts, nil
	case "sold", "topproducts", "top-products":
		return DatasetTopProducts, nil
	case "orders", "orderdetails", "order-details":
		return DatasetOrders, nil
	}
	return DatasetCustomers, fmt.Errorf("unknown dataset: %q", s)
}
