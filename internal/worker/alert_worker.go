package worker

// alert_worker.go
// Evaluates a product's on-hand total against its registered alert floor after
// each release and emails the clinic inbox when stock has dropped below it.
// A cooldown key in Redis keeps repeated releases from spamming the inbox.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pdstock/internal/model"
	"pdstock/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const alertCooldown = 6 * time.Hour

// StockAlertPayload names the product whose threshold should be re-checked.
type StockAlertPayload struct {
	ThaiName    string `json:"thai_name"`
	EnglishName string `json:"english_name"`
}

// AlertMailer sends the low-stock notification. Implemented by infra.Mailer.
type AlertMailer interface {
	SendLowStockAlert(to, subject, body string) error
}

type AlertWorker struct {
	items    repository.StockItemRepository
	products repository.ProductRepository
	mailer   AlertMailer
	rdb      *redis.Client
	toEmail  string
}

func NewAlertWorker(
	items repository.StockItemRepository,
	products repository.ProductRepository,
	mailer AlertMailer,
	rdb *redis.Client,
	toEmail string,
) *AlertWorker {
	return &AlertWorker{items: items, products: products, mailer: mailer, rdb: rdb, toEmail: toEmail}
}

func (w *AlertWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	if w.toEmail == "" {
		return // alerts not configured
	}

	product, err := w.findProduct(ctx, payload)
	if err != nil {
		log.Warn().Err(err).Msg("alert_worker: catalog lookup failed")
		return
	}
	if product == nil || product.MinStock <= 0 {
		return // unregistered product or no floor set
	}

	onHand, err := w.onHandTotal(ctx, product)
	if err != nil {
		log.Warn().Err(err).Msg("alert_worker: on-hand lookup failed")
		return
	}
	if onHand >= product.MinStock {
		return
	}

	name := product.ThaiName
	if name == "" {
		name = product.EnglishName
	}

	if !w.claimCooldown(ctx, name) {
		log.Debug().Str("product", name).Msg("alert_worker: alert suppressed by cooldown")
		return
	}

	subject := fmt.Sprintf("Low stock: %s (%d left)", name, onHand)
	body := fmt.Sprintf(
		"Stock for %s has dropped to %d units, below the alert floor of %d.\nPlease reorder.",
		name, onHand, product.MinStock)
	if err := w.mailer.SendLowStockAlert(w.toEmail, subject, body); err != nil {
		log.Error().Err(err).Str("product", name).Msg("alert_worker: failed to send alert email")
		return
	}
	log.Info().Str("product", name).Int("on_hand", onHand).Int("min_stock", product.MinStock).
		Msg("alert_worker: low stock alert sent")
}

func (w *AlertWorker) findProduct(ctx context.Context, payload StockAlertPayload) (*model.Product, error) {
	catalog, err := w.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range catalog {
		p := &catalog[i]
		if (payload.ThaiName != "" && strings.EqualFold(p.ThaiName, payload.ThaiName)) ||
			(payload.EnglishName != "" && strings.EqualFold(p.EnglishName, payload.EnglishName)) {
			return p, nil
		}
	}
	return nil, nil
}

func (w *AlertWorker) onHandTotal(ctx context.Context, product *model.Product) (int, error) {
	items, err := w.items.ListInStock(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for i := range items {
		item := &items[i]
		if (product.ThaiName != "" && strings.EqualFold(item.ThaiName, product.ThaiName)) ||
			(product.EnglishName != "" && strings.EqualFold(item.EnglishName, product.EnglishName)) {
			total += item.Quantity
		}
	}
	return total, nil
}

// claimCooldown returns true when this worker won the right to alert for the
// product within the cooldown window.
func (w *AlertWorker) claimCooldown(ctx context.Context, name string) bool {
	if w.rdb == nil {
		return true
	}
	key := "alert:cooldown:" + strings.ToLower(name)
	ok, err := w.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), alertCooldown).Result()
	if err != nil {
		// Redis down — better a duplicate email than a missed one.
		return true
	}
	return ok
}
