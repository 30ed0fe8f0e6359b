package service

import (
	"context"

	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/pkg/printer"
	"go.uber.org/zap"
)

// ReceiptService renders and prints customer receipts on the configured
// thermal printer. Printing is best-effort: failures are logged and never
// propagate into the payment path.
type ReceiptService struct {
	printer   printer.Printer
	storeRepo repository.StoreRepository
	log       *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(p printer.Printer, storeRepo repository.StoreRepository, log *zap.Logger) *ReceiptService {
	return &ReceiptService{printer: p, storeRepo: storeRepo, log: log}
}

// PrintOrderReceipt renders the final receipt for a fully paid order and
// sends it to the printer asynchronously.
func (s *ReceiptService) PrintOrderReceipt(ctx context.Context, order *entity.Order) {
	store, err := s.storeRepo.GetByID(ctx, order.StoreID)
	if err != nil || store == nil {
		s.log.Warn("receipt: store lookup failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		store = &entity.Store{Settings: entity.DefaultStoreSettings()}
	}

	data := buildReceipt(store, order)
	go func() {
		if err := s.printer.Print(data); err != nil {
			s.log.Warn("receipt: print failed",
				zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}()
}

// buildReceipt lays out the ESC/POS receipt: header, items, totals,
// payments with change due, footer.
func buildReceipt(store *entity.Store, order *entity.Order) []byte {
	doc := printer.NewDocument(32)

	doc.SetAlign(printer.AlignCenter).SetBold(true).SetFontSize(printer.FontDouble)
	if store.Name != "" {
		doc.Text(store.Name)
	}
	doc.SetFontSize(printer.FontNormal).SetBold(false)
	if store.Settings.ReceiptHeader != "" {
		doc.Text(store.Settings.ReceiptHeader)
	}
	doc.TextF("Order %s", order.ID.String()[:8])
	doc.SetAlign(printer.AlignLeft).Separator('-')

	for i := range order.LineItems {
		li := &order.LineItems[i]
		doc.ItemLine(li.Quantity, li.Name, li.LineSubtotal.StringFixed(2))
		for _, opt := range li.SelectedOptions {
			doc.TextF("  + %s", opt.Name)
		}
	}

	doc.Separator('-')
	doc.KeyValue("Subtotal", order.Subtotal.StringFixed(2))
	if order.DiscountAmount.Sign() > 0 {
		doc.KeyValue("Discount", "-"+order.DiscountAmount.StringFixed(2))
	}
	doc.KeyValue("VAT", order.VAT.StringFixed(2))
	doc.KeyValue("Service charge", order.ServiceCharge.StringFixed(2))
	doc.SetBold(true)
	doc.KeyValue("TOTAL", order.GrandTotal.StringFixed(2))
	doc.SetBold(false)

	doc.Separator('-')
	for i := range order.Payments {
		p := &order.Payments[i]
		doc.KeyValue(string(p.Method), p.Amount.StringFixed(2))
		if change := p.Change(); change.Sign() > 0 {
			doc.KeyValue("  Change", change.StringFixed(2))
		}
	}

	if store.Settings.ReceiptFooter != "" {
		doc.FeedLines(1).SetAlign(printer.AlignCenter).Text(store.Settings.ReceiptFooter)
	}

	doc.FeedLines(3).Cut()
	return doc.Bytes()
}
