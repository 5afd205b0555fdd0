package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"amber-storefront/internal/cart"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/order"
	"amber-storefront/internal/service"
)

// userError turns a service error into the alert text a customer would see.
func userError(err error) error {
	notice := service.Describe(err)
	if notice.Title == "" || notice.Title == "Error" {
		return errors.New(notice.Body)
	}
	return fmt.Errorf("%s: %s", notice.Title, notice.Body)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProducts(w io.Writer, products []domain.Product, currency string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tPRECIO\tSTOCK\tCATEGORÍA")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%d\t%s\n", p.ID, p.Name, currency, p.Price.StringFixed(2), p.Stock, p.Category)
	}
	tw.Flush()
}

func printCart(w io.Writer, snap cart.Snapshot, currency string) {
	for _, item := range snap.Items {
		fmt.Fprintf(w, "  %d x %s (%s)  %s %s\n", item.Quantity, item.Name, item.Pack, currency, item.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(w, "  Total: %s %s (%d artículos)\n", currency, snap.Total.StringFixed(2), snap.Count)
}

func printOrders(w io.Writer, page domain.OrderPage, currency string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tESTADO\tTOTAL\tFECHA")
	for _, o := range page.Orders {
		created := "-"
		if !o.CreatedAt.IsZero() {
			created = o.CreatedAt.Local().Format("02/01/2006 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\n", o.ID, order.Label(o.Status), currency, o.Total.StringFixed(2), created)
	}
	tw.Flush()
	fmt.Fprintf(w, "Página %d de %d (%d pedidos)\n", page.CurrentPage, page.TotalPages, page.Total)
}

func printOrder(w io.Writer, o domain.Order, actions []order.Action, currency string) {
	fmt.Fprintf(w, "Pedido %s  [%s]\n", o.ID, order.Label(o.Status))
	if name := strings.TrimSpace(o.User.Name + " " + o.User.LastName); name != "" {
		fmt.Fprintf(w, "Cliente: %s\n", name)
	}
	if o.DeliveryAddress != "" {
		fmt.Fprintf(w, "Entrega: %s\n", o.DeliveryAddress)
	}
	for _, line := range o.Items {
		fmt.Fprintf(w, "  %d x %s  %s %s\n", line.Quantity, line.ProductName, currency, line.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(w, "Total: %s %s\n", currency, o.Total.StringFixed(2))
	if len(actions) > 0 {
		labels := make([]string, 0, len(actions))
		for _, a := range actions {
			labels = append(labels, fmt.Sprintf("%s (%s)", a.Label, a.Target))
		}
		fmt.Fprintf(w, "Acciones: %s\n", strings.Join(labels, ", "))
	}
}

func printReport(w io.Writer, r service.SalesReport, currency string) {
	fmt.Fprintf(w, "Reporte de ventas (%s)\n", r.Range)
	fmt.Fprintf(w, "  Ventas totales:   %s %s\n", currency, r.TotalSales.StringFixed(2))
	fmt.Fprintf(w, "  Pedidos:          %d\n", r.TotalOrders)
	fmt.Fprintf(w, "  Ticket promedio:  %s %s\n", currency, r.AverageOrderValue.StringFixed(2))

	if len(r.TopProducts) > 0 {
		fmt.Fprintln(w, "Productos más vendidos:")
		for i, p := range r.TopProducts {
			fmt.Fprintf(w, "  %d. %s  %d u.  %s %s\n", i+1, p.Name, p.Quantity, currency, p.Revenue.StringFixed(2))
		}
	}
	if len(r.DailySales) > 0 {
		fmt.Fprintln(w, "Ventas diarias:")
		for _, d := range r.DailySales {
			fmt.Fprintf(w, "  %s  %d pedidos  %s %s\n", d.Date, d.Orders, currency, d.Sales.StringFixed(2))
		}
	}
}
