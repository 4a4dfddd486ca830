package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

const (
	recentLimit   = 5
	lowStockLimit = 10
)

// API is the read access the dashboards need.
type API interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
}

// Service loads dashboards through the cache.
type Service struct {
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the cache; a nil cache loads every time.
func NewService(cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: cache, logger: logger, now: time.Now}
}

// Load returns the dashboard of user, from cache when fresh. Cache failures
// fall back to a direct load; API failures are returned.
func (s *Service) Load(ctx context.Context, api API, user credentials.User) (Dashboard, error) {
	kind := KindFor(user.Role)
	var (
		loaded  *Dashboard
		loadErr error
	)
	loader := func(ctx context.Context) (any, error) {
		d, err := s.load(ctx, api, kind)
		if err != nil {
			loadErr = err
			return nil, err
		}
		loaded = &d
		return d, nil
	}

	key, err := s.cache.BuildKey(ctx, "dashboard", strconv.FormatInt(user.ID, 10), string(user.Role))
	if err == nil {
		var d Dashboard
		err = s.cache.FetchJSON(ctx, key, &d, loader)
		switch {
		case err == nil:
			return d, nil
		case loadErr != nil:
			return Dashboard{}, loadErr
		}
	}
	s.logger.Warn("dashboard cache unavailable", slog.Any("error", err))
	if loaded != nil {
		return *loaded, nil
	}
	return s.load(ctx, api, kind)
}

// Invalidate drops every cached dashboard.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) load(ctx context.Context, api API, kind Kind) (Dashboard, error) {
	d := Dashboard{Kind: kind, LoadedAt: s.now().UTC()}
	switch kind {
	case KindManager:
		var stats ManagerStats
		if err := getJSON(ctx, api, "/sales/manager-stats/", &stats); err != nil {
			return Dashboard{}, err
		}
		d.Manager = &stats
	case KindVendor:
		var stats VendorStats
		if err := getJSON(ctx, api, "/sales/vendor-stats/", &stats); err != nil {
			return Dashboard{}, err
		}
		d.Vendor = &stats
	default:
		stats, err := s.loadAdmin(ctx, api)
		if err != nil {
			return Dashboard{}, err
		}
		d.Admin = &stats
	}
	return d, nil
}

func (s *Service) loadAdmin(ctx context.Context, api API) (AdminStats, error) {
	var stats AdminStats
	today := s.now().Format("2006-01-02")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, total, err := getList[json.RawMessage](ctx, api, "/products/active/")
		stats.ActiveProducts = total
		return err
	})

	g.Go(func() error {
		q := url.Values{"created_at__date": {today}}
		sales, total, err := getList[Transaction](ctx, api, "/sales/?"+q.Encode())
		if err != nil {
			return err
		}
		var sum Amount
		for _, sale := range sales {
			sum += sale.Total
		}
		stats.TodaySales = sum
		stats.TodayCount = total
		stats.RecentSales = head(sales, recentLimit)
		return nil
	})

	g.Go(func() error {
		orders, total, err := getList[OrderSummary](ctx, api, "/orders/?status=pendiente")
		if err != nil {
			return err
		}
		stats.PendingOrders = total
		stats.PendingList = head(orders, recentLimit)
		return nil
	})

	g.Go(func() error {
		_, total, err := getList[json.RawMessage](ctx, api, "/users/?is_active=true")
		stats.ActiveUsers = total
		return err
	})

	g.Go(func() error {
		rows, _, err := getList[StockAlert](ctx, api, "/inventory/")
		if err != nil {
			return err
		}
		stats.LowStock = LowStock(rows, lowStockLimit)
		return nil
	})

	if err := g.Wait(); err != nil {
		return AdminStats{}, err
	}
	return stats, nil
}

// LowStock keeps the rows strictly below their reorder point, at most limit.
func LowStock(rows []StockAlert, limit int) []StockAlert {
	out := make([]StockAlert, 0, len(rows))
	for _, row := range rows {
		if row.Stock < row.ReorderPoint {
			out = append(out, row)
		}
	}
	return head(out, limit)
}

func getJSON(ctx context.Context, api API, path string, dest any) error {
	raw, err := api.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("dashboard: decode %s: %w", path, err)
	}
	return nil
}

// getList decodes either list shape into T and returns the total count.
func getList[T any](ctx context.Context, api API, path string) ([]T, int, error) {
	raw, err := api.Get(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	res, err := screen.DecodeListResult(raw)
	if err != nil {
		return nil, 0, err
	}
	items, err := json.Marshal(res.Items)
	if err != nil {
		return nil, 0, err
	}
	var out []T
	if err := json.Unmarshal(items, &out); err != nil {
		return nil, 0, fmt.Errorf("dashboard: decode %s: %w", path, err)
	}
	return out, res.TotalCount, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
