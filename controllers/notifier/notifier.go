// Package notifierControllers holds the fire-and-forget side effects that run
// after a checkout commits. Nothing here can fail an order: every error is
// logged for operators and dropped.
package notifierControllers

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/inventory"
	"github.com/Asekrisaif/mediasoft-api/models"

	orderControllers "github.com/Asekrisaif/mediasoft-api/controllers/order"
)

// Mailer sends one message. SMTPMailer is the production implementation;
// tests swap in a recorder.
type Mailer interface {
	Send(to []string, subject, body string) error
}

type Notifier struct {
	db     *gorm.DB
	mailer Mailer
}

func NewNotifier(db *gorm.DB, mailer Mailer) *Notifier {
	return &Notifier{db: db, mailer: mailer}
}

// NotifyLowStock alerts administrators about every product the checkout
// flagged. Stock is re-read first: a restock committed since the flag means
// no alert. Products are handled independently, one failure never silences
// the rest.
func (n *Notifier) NotifyLowStock(batch []orderControllers.LowStockProduct) {
	if len(batch) == 0 {
		return
	}

	var admins []models.Admin
	if err := n.db.Where("approved = ?", true).Find(&admins).Error; err != nil {
		log.Printf("low-stock alert: failed to load admin recipients: %v", err)
		return
	}
	if len(admins) == 0 {
		log.Printf("low-stock alert: no approved admin recipients")
		return
	}
	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.Email)
	}

	for _, flagged := range batch {
		var product models.Product
		if err := n.db.First(&product, "id = ?", flagged.ProductID).Error; err != nil {
			log.Printf("low-stock alert for product %d: re-read failed: %v", flagged.ProductID, err)
			continue
		}
		if !inventory.IsLowStock(product.Stock, product.ReorderThreshold) {
			continue // restocked since checkout flagged it
		}

		subject := fmt.Sprintf("Low stock: %s", product.Name)
		body := fmt.Sprintf(
			"Product %q (id %d) is down to %d units, at or under its reorder threshold of %d.",
			product.Name, product.ID, product.Stock, product.ReorderThreshold,
		)
		if err := n.mailer.Send(recipients, subject, body); err != nil {
			log.Printf("low-stock alert for product %d failed: %v", product.ID, err)
			continue
		}
	}
}
