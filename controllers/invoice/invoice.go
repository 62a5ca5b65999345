package invoiceControllers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/Asekrisaif/mediasoft-api/models"
)

// Filename returns the download name for an order's invoice.
func Filename(order models.Order) string {
	return fmt.Sprintf("invoice-%s.pdf", order.OrderRef)
}

// Build renders the invoice document: recipient, itemized lines, totals and
// delivery info. Layout is intentionally plain; the data is the contract.
func Build(order models.Order, user models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Order: %s", order.OrderRef))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Customer: %s <%s>", user.Name, user.Email))
	pdf.Ln(6)
	if order.Delivery.Note == models.PickupNote {
		pdf.Cell(0, 6, "Fulfillment: pickup")
	} else {
		pdf.Cell(0, 6, fmt.Sprintf("Deliver to: %s", order.Delivery.Note))
	}
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Target delivery date: %s", order.DeliveryDate.Format("2006-01-02")))
	pdf.Ln(10)

	// Line items
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(90, 7, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Subtotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totals := []struct {
		label string
		value string
	}{
		{"Total", fmt.Sprintf("%.2f", order.Total)},
		{"Discount", fmt.Sprintf("-%.2f", order.Discount)},
		{"Delivery fee", fmt.Sprintf("%.2f", order.DeliveryFee)},
		{"Amount due", fmt.Sprintf("%.2f", order.AmountDue)},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(145, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, row.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Loyalty points earned: %d, redeemed: %d",
		order.PointsEarned, order.PointsRedeemed))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
