// Package pdf genera el comprobante de despacho (packing slip) de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: YUANDI               │  N° Pedido + Fecha de pago  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: Nombre / Tel / Dirección                      │
//	│  DESPACHO: Courier / Guía / QR de seguimiento                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | SKU | P.Unit | Subtotal            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"errors"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PackingSlipGenerator implementa orders.PackingSlipGenerator usando Maroto v2.
type PackingSlipGenerator struct {
	storeName string
	printer   *message.Printer
}

// NewPackingSlipGenerator construye el generador. Los montos se formatean con
// separadores de miles coreanos.
func NewPackingSlipGenerator(storeName string) *PackingSlipGenerator {
	return &PackingSlipGenerator{
		storeName: nonEmpty(storeName, "YUANDI"),
		printer:   message.NewPrinter(language.Korean),
	}
}

// Generate genera el PDF y devuelve sus bytes. shipment puede ser nil si el
// pedido aún no tiene datos de despacho.
func (g *PackingSlipGenerator) Generate(order *entity.Order, shipment *entity.Shipment) ([]byte, error) {
	if order == nil {
		return nil, errors.New("pdf: pedido nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Packing slip "+order.OrderNumber, true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(recipientRow(order))
	if shipment != nil {
		m.AddRows(shipmentRow(shipment))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableItemRows(order) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Revise el contenido al recibir. Conserve este comprobante para cambios o devoluciones.",
			props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Center}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *PackingSlipGenerator) headerRow(order *entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("COMPROBANTE DE DESPACHO", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Pedido "+order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Pagado: "+order.PaidAt.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Estado: "+order.Status, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func recipientRow(order *entity.Order) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
			text.New(order.CustomerName, props.Text{Size: 9, Top: 6}),
			text.New("Tel: "+nonEmpty(order.CustomerPhone, "-"), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
			text.New(nonEmpty(order.ShippingAddress, "Sin dirección registrada"), props.Text{
				Size: 8, Top: 14,
			}),
		),
	)
}

// shipmentRow: courier y guía, con QR al enlace de seguimiento si existe.
func shipmentRow(s *entity.Shipment) core.Row {
	info := col.New(8).Add(
		text.New("DESPACHO", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
		text.New("Courier: "+nonEmpty(s.Courier, "-"), props.Text{Size: 9, Top: 6}),
		text.New("Guía: "+s.TrackingNumber, props.Text{Size: 9, Top: 11}),
		text.New("Enviado: "+s.ShippedAt.Format("2006-01-02 15:04"), props.Text{
			Size: 8, Top: 16, Color: colorGray,
		}),
	)
	if s.TrackingURL == "" {
		return row.New(22).Add(info, col.New(4))
	}
	return row.New(30).Add(info, col.New(4).Add(code.NewQr(s.TrackingURL, props.Rect{
		Percent: 90,
		Center:  true,
	})))
}

func tableHeaderRow() core.Row {
	cell := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 1.5,
		})
	}
	return row.New(7).
		WithStyle(&props.Cell{BackgroundColor: colorPrimary}).
		Add(
			col.New(1).Add(cell("Cant.", align.Center)),
			col.New(5).Add(cell("Producto", align.Left)),
			col.New(2).Add(cell("SKU", align.Left)),
			col.New(2).Add(cell("P. Unit.", align.Right)),
			col.New(2).Add(cell("Subtotal", align.Right)),
		)
}

func (g *PackingSlipGenerator) tableItemRows(order *entity.Order) []core.Row {
	result := make([]core.Row, 0, len(order.Items))
	for _, it := range order.Items {
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.SKU,
				props.Text{Size: 7, Align: align.Left, Top: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				g.money(it.UnitPrice, order.Currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				g.money(it.Subtotal, order.Currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *PackingSlipGenerator) totalsRow(order *entity.Order) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("TOTAL:"),
		),
		col.New(4).Add(
			value(g.money(order.TotalAmount, order.Currency)),
			value("-"+g.money(order.DiscountAmount, order.Currency)),
			grand(g.money(order.FinalAmount, order.Currency)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea un monto entero con separador de miles: 25000 KRW → "25,000 KRW".
func (g *PackingSlipGenerator) money(amount int64, currency string) string {
	return g.printer.Sprintf("%d %s", amount, currency)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
