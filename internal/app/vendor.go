package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/giftery-client/internal/catalog"
	"github.com/samvad-hq/giftery-client/internal/config"
	"github.com/samvad-hq/giftery-client/internal/domain"
	"github.com/samvad-hq/giftery-client/internal/logger"
	"github.com/samvad-hq/giftery-client/internal/storage"
	"github.com/samvad-hq/giftery-client/pkg/giftery"
	"github.com/samvad-hq/giftery-client/pkg/httpclient"
	"github.com/samvad-hq/giftery-client/pkg/publishers"
	"github.com/shopspring/decimal"
)

// gifteryAPI is the subset of *giftery.Client the vendor calls.
type gifteryAPI interface {
	GetBalance(ctx context.Context) (*giftery.BalanceResponse, error)
	GetProducts(ctx context.Context) (*giftery.ProductsResponse, error)
	MakeOrder(ctx context.Context, order *giftery.OrderData) (*giftery.MakeOrderResponse, error)
}

// eventSink receives order events after placement.
type eventSink interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
	Close() error
}

// Vendor places certificate orders through the Giftery API. It keeps a
// journal of placed orders keyed by external id and announces every new
// order to the configured publishers.
type Vendor struct {
	api   gifteryAPI
	store storage.Store
	sink  eventSink
	log   logger.Logger
	now   func() time.Time
}

// Placement is the outcome of PlaceOrder.
type Placement struct {
	Order domain.PlacedOrder
	// Duplicate is set when the external id was already journaled and no
	// remote call was made.
	Duplicate bool
}

// NewVendor builds a vendor runtime from config.
func NewVendor(ctx context.Context, cfg *config.Config, log logger.Logger) (*Vendor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := giftery.New(cfg.ClientID, cfg.ClientSecret,
		giftery.WithEndpoint(cfg.Endpoint),
		giftery.WithHTTPClient(httpclient.NewRestyClient(cfg.HTTPTimeout)),
		giftery.WithLogger(log),
	)
	if cfg.UsePost() {
		client = client.UsePost()
	}
	log.InfoObj("giftery client configured", "client_meta", map[string]any{
		"client_id":       client.ClientID(),
		"endpoint":        client.Endpoint(),
		"mode":            client.Mode().String(),
		"timeout_seconds": int(cfg.HTTPTimeout.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		OrderTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	}
	store, err := storage.NewStore(cfg.JournalType, cfg.JournalPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.InfoObj("order journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"order_ttl_seconds":        int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	return newVendor(client, store, fanout, log), nil
}

func newVendor(api gifteryAPI, store storage.Store, sink eventSink, log logger.Logger) *Vendor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if sink == nil {
		sink = publishers.NewFanout(nil)
	}
	return &Vendor{
		api:   api,
		store: store,
		sink:  sink,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// buildFanout loads the publishers registry. An empty path disables
// publishing.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.InfoObj("publishers disabled", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Balance returns the account balance.
func (v *Vendor) Balance(ctx context.Context) (decimal.Decimal, error) {
	res, err := v.api.GetBalance(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return res.Balance, nil
}

// Products returns the catalog narrowed by filter.
func (v *Vendor) Products(ctx context.Context, filter catalog.Filter) ([]giftery.Product, error) {
	res, err := v.api.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	products := catalog.Apply(res.Products, filter)
	v.log.DebugObj("products listed", "products_meta", map[string]any{
		"total":    len(res.Products),
		"filtered": len(products),
	})
	return products, nil
}

// PlaceOrder places order unless its external id was placed before. A
// missing external id is generated so the order can still be journaled.
func (v *Vendor) PlaceOrder(ctx context.Context, order giftery.OrderData) (Placement, error) {
	if err := order.Validate(); err != nil {
		return Placement{}, err
	}

	order.ExternalID = strings.TrimSpace(order.ExternalID)
	if order.ExternalID == "" {
		order.ExternalID = uuid.NewString()
	}

	existing, found, err := v.store.LookupOrder(order.ExternalID)
	if err != nil {
		return Placement{}, fmt.Errorf("lookup order %s: %w", order.ExternalID, err)
	}
	if found {
		v.log.InfoObj("order already placed", "order", existing)
		return Placement{Order: existing, Duplicate: true}, nil
	}

	res, err := v.api.MakeOrder(ctx, &order)
	if err != nil {
		return Placement{}, fmt.Errorf("make order: %w", err)
	}

	placed := domain.PlacedOrder{
		OrderID:    res.OrderID,
		ExternalID: order.ExternalID,
		ProductID:  order.ProductID,
		Face:       order.Face,
		EmailTo:    order.EmailTo,
		TestMode:   order.TestMode,
		PlacedAt:   v.now(),
	}
	v.log.InfoObj("order placed", "order", placed)

	if err := v.store.RecordOrder(placed); err != nil {
		// The remote accepted the order; a journal failure must not hide that.
		v.log.ErrorObj("order journal write failed", "error", map[string]any{
			"external_id": placed.ExternalID,
			"error":       err.Error(),
		})
	}

	v.announce(ctx, placed)
	return Placement{Order: placed}, nil
}

func (v *Vendor) announce(ctx context.Context, order domain.PlacedOrder) {
	if v.sink.Size() == 0 {
		return
	}
	delivered, err := v.sink.Publish(ctx, publishers.NewOrderPlacedEvent(order))
	meta := map[string]any{
		"external_id": order.ExternalID,
		"delivered":   delivered,
		"publishers":  v.sink.Size(),
	}
	if err != nil {
		meta["error"] = err.Error()
		v.log.WarnObj("order event publish failed", "publish_meta", meta)
		return
	}
	v.log.DebugObj("order event published", "publish_meta", meta)
}

// Close releases the journal and publisher connections.
func (v *Vendor) Close() error {
	if v == nil {
		return nil
	}
	var errs []error
	if v.store != nil {
		if err := v.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	if v.sink != nil {
		if err := v.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publishers: %w", err))
		}
	}
	return errors.Join(errs...)
}
