// Package pdf renders report documents with maroto.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLoss    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ProfitReportRenderer draws the monthly profit table.
type ProfitReportRenderer struct {
	now func() time.Time
}

func NewProfitReportRenderer() *ProfitReportRenderer {
	return &ProfitReportRenderer{now: time.Now}
}

// RenderMonthlyProfit returns the PDF bytes of the monthly table followed by a
// totals line. An empty slice still renders the header.
func (g *ProfitReportRenderer) RenderMonthlyProfit(company string, months []domain.MonthlyProfit) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lucro mensal", true).
		WithAuthor(company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())

	revenue, cost, profit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, month := range months {
		m.AddRows(monthRow(month))
		revenue = revenue.Add(month.Revenue)
		cost = cost.Add(month.Cost)
		profit = profit.Add(month.Profit)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(revenue, cost, profit))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating profit report: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(company string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Relatório de lucro mensal", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(company, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Gerado em "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Mês", 3, align.Left),
		h("Receita", 3, align.Right),
		h("Custo", 3, align.Right),
		h("Lucro", 3, align.Right),
	)
}

func monthRow(month domain.MonthlyProfit) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(month.Month, props.Text{Size: 9, Top: 1})),
		col.New(3).Add(text.New(money(month.Revenue), props.Text{Size: 9, Align: align.Right, Top: 1})),
		col.New(3).Add(text.New(money(month.Cost), props.Text{Size: 9, Align: align.Right, Top: 1})),
		col.New(3).Add(text.New(money(month.Profit), profitProps(month.Profit, false))),
	)
}

func totalsRow(revenue, cost, profit decimal.Decimal) core.Row {
	bold := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}
	return row.New(9).Add(
		col.New(3).Add(text.New("Total", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
		col.New(3).Add(text.New(money(revenue), bold)),
		col.New(3).Add(text.New(money(cost), bold)),
		col.New(3).Add(text.New(money(profit), profitProps(profit, true))),
	)
}

func profitProps(profit decimal.Decimal, bold bool) props.Text {
	p := props.Text{Size: 9, Align: align.Right, Top: 1}
	if bold {
		p.Style = fontstyle.Bold
		p.Top = 2
	}
	if profit.IsNegative() {
		p.Color = colorLoss
	}
	return p
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}
