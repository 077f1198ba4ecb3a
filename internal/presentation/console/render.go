package console

import (
	"fmt"
	"io"

	"github.com/Zhima-Mochi/minishop-checkout/internal/application/checkout"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/shipping"
)

// Renderer writes shipment notices and receipts in the classic console
// format. The layout is part of the compatibility surface, down to the
// padding widths and trailing blank lines.
type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer { return &Renderer{w: w} }

// ShipmentNotice prints the manifest and total weight. Nothing is printed
// when the shipment has no entries.
func (r *Renderer) ShipmentNotice(s shipping.Shipment) {
	if len(s.Manifest) == 0 {
		return
	}
	fmt.Fprintln(r.w, "** Shipment notice **")
	for _, e := range s.Manifest {
		fmt.Fprintf(r.w, "%dx %s %.0fg\n", e.Quantity, e.Name, e.UnitWeightGrams)
	}
	fmt.Fprintf(r.w, "Total package weight %.1fkg\n\n", s.TotalWeightKg)
}

// Receipt prints a committed checkout receipt.
func (r *Renderer) Receipt(rc *checkout.Receipt) {
	fmt.Fprintln(r.w, "** Checkout receipt **")
	for _, l := range rc.Lines {
		fmt.Fprintf(r.w, "%dx %-18s %.0f\n", l.Quantity, l.Name, l.Amount)
	}
	fmt.Fprintln(r.w, "----------------------")
	fmt.Fprintf(r.w, "Subtotal %.0f\n", rc.Subtotal)
	fmt.Fprintf(r.w, "Shipping %.0f\n", rc.ShippingFee)
	fmt.Fprintf(r.w, "Amount   %.0f\n", rc.Total)
	fmt.Fprintf(r.w, "Balance left: %.0f\n\n", rc.BalanceLeft)
}
