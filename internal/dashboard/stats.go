package dashboard

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
)

// Kind selects which dashboard a role sees.
type Kind string

const (
	KindAdmin   Kind = "admin"
	KindManager Kind = "manager"
	KindVendor  Kind = "vendor"
)

// KindFor maps a role to its dashboard.
func KindFor(role credentials.Role) Kind {
	switch role {
	case credentials.RoleGerente:
		return KindManager
	case credentials.RoleVendedor:
		return KindVendor
	}
	return KindAdmin
}

// Amount is a money value. The API sends decimals either as JSON numbers or
// as strings such as "12990.00".
type Amount float64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("dashboard: amount %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount as float64.
func (a Amount) Float() float64 { return float64(a) }

// Series is a chart payload.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Transaction is a sale as listed on the dashboards.
type Transaction struct {
	ID                   int64  `json:"id"`
	ReceiptNumber        string `json:"receipt_number"`
	CustomerName         string `json:"customer_name"`
	SellerName           string `json:"seller_name"`
	Total                Amount `json:"total"`
	PaymentMethod        string `json:"payment_method"`
	PaymentMethodDisplay string `json:"payment_method_display"`
	CreatedAt            string `json:"created_at"`
}

// OrderSummary is a pending order row.
type OrderSummary struct {
	ID            int64  `json:"id"`
	OrderNumber   string `json:"order_number"`
	CustomerName  string `json:"customer_name"`
	Total         Amount `json:"total"`
	Status        string `json:"status"`
	StatusDisplay string `json:"status_display"`
	CreatedAt     string `json:"created_at"`
}

// StockAlert is an inventory row below its reorder point.
type StockAlert struct {
	ID           int64  `json:"id"`
	ProductName  string `json:"product_name"`
	BranchName   string `json:"branch_name"`
	Stock        Amount `json:"stock"`
	ReorderPoint Amount `json:"reorder_point"`
}

// AdminStats feeds the company-wide dashboard.
type AdminStats struct {
	ActiveProducts int            `json:"active_products"`
	TodaySales     Amount         `json:"today_sales"`
	TodayCount     int            `json:"today_count"`
	PendingOrders  int            `json:"pending_orders"`
	ActiveUsers    int            `json:"active_users"`
	RecentSales    []Transaction  `json:"recent_sales"`
	PendingList    []OrderSummary `json:"pending_list"`
	LowStock       []StockAlert   `json:"low_stock"`
}

// TopSeller is the best seller of the month.
type TopSeller struct {
	Name  string `json:"name"`
	Sales Amount `json:"sales"`
}

// SellerPerformance is one row of the team table.
type SellerPerformance struct {
	Name             string `json:"name"`
	TotalSales       Amount `json:"total_sales"`
	TransactionCount int    `json:"transaction_count"`
	AvgTicket        Amount `json:"avg_ticket"`
	Commission       Amount `json:"commission"`
	ChangePercentage Amount `json:"change_percentage"`
	Status           string `json:"status"`
}

// ManagerStats mirrors /sales/manager-stats/.
type ManagerStats struct {
	TotalTeamSales     Amount              `json:"total_team_sales"`
	SalesChange        Amount              `json:"sales_change"`
	ActiveSellers      int                 `json:"active_sellers"`
	TeamAvgTicket      Amount              `json:"team_avg_ticket"`
	TopSeller          *TopSeller          `json:"top_seller"`
	TeamPerformance    []SellerPerformance `json:"team_performance"`
	SellerSales        Series              `json:"seller_sales"`
	WeeklyPerformance  Series              `json:"weekly_performance"`
	RecentTransactions []Transaction       `json:"recent_transactions"`
}

// TopProduct is a best-selling product of the vendor.
type TopProduct struct {
	Name          string `json:"product__name"`
	TotalQuantity Amount `json:"total_quantity"`
	TotalRevenue  Amount `json:"total_revenue"`
	TicketCount   int    `json:"ticket_count"`
}

// VendorStats mirrors /sales/vendor-stats/.
type VendorStats struct {
	TotalSales          Amount        `json:"total_sales"`
	SalesChange         Amount        `json:"sales_change"`
	TransactionCount    int           `json:"transaction_count"`
	AvgTicket           Amount        `json:"avg_ticket"`
	EstimatedCommission Amount        `json:"estimated_commission"`
	DailySales          Series        `json:"daily_sales"`
	PaymentMethods      Series        `json:"payment_methods"`
	RecentSales         []Transaction `json:"recent_sales"`
	TopProducts         []TopProduct  `json:"top_products"`
}

// Dashboard is the cached payload of one user's dashboard. Exactly one of
// the stats pointers is set, matching Kind.
type Dashboard struct {
	Kind     Kind          `json:"kind"`
	Admin    *AdminStats   `json:"admin,omitempty"`
	Manager  *ManagerStats `json:"manager,omitempty"`
	Vendor   *VendorStats  `json:"vendor,omitempty"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// Empty returns the all-zero dashboard shown when loading fails.
func Empty(kind Kind) Dashboard {
	d := Dashboard{Kind: kind}
	switch kind {
	case KindManager:
		d.Manager = &ManagerStats{}
	case KindVendor:
		d.Vendor = &VendorStats{}
	default:
		d.Kind = KindAdmin
		d.Admin = &AdminStats{}
	}
	return d
}
