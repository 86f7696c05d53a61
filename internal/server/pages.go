package server

import (
	"fmt"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"github.com/chrisdamba/deliverydash/internal/models"
)

type dashboardView struct {
	Range   models.DateRange
	Orders  models.Section[models.OrdersByHubRow]
	Revenue models.Section[models.RevenueByHubRow]
	Drivers models.Section[models.DriverMetricsRow]

	OrdersKPI     models.OrdersKPI
	OrdersKPIErr  error
	RevenueKPI    models.RevenueKPI
	RevenueKPIErr error
}

const pageStyle = `
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 1100px; color: #1c1c1c; }
h1 { margin-bottom: 0.25rem; }
form.range { margin: 1rem 0 2rem; display: flex; gap: 1rem; align-items: end; }
form.range label { display: flex; flex-direction: column; font-size: 0.85rem; }
section { margin-bottom: 2.5rem; }
.cards { display: flex; gap: 1rem; margin-bottom: 1rem; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 0.75rem 1.25rem; min-width: 10rem; }
.card .label { font-size: 0.8rem; color: #666; }
.card .value { font-size: 1.4rem; font-weight: 600; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #e3e3e3; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f7f7f7; }
.warning { color: #8a6d00; background: #fff6da; padding: 0.6rem 1rem; border-radius: 6px; }
.error { color: #8f1f1f; background: #ffe6e6; padding: 0.6rem 1rem; border-radius: 6px; }
a.download { display: inline-block; margin-top: 0.5rem; }
`

var cityPalette = []string{"#4e79a7", "#f28e2b", "#59a14f", "#e15759", "#76b7b2", "#edc948"}

func dashboardPage(v dashboardView) gomponents.Node {
	query := fmt.Sprintf("?start=%s&end=%s", v.Range.StartString(), v.Range.EndString())

	return html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
			html.TitleEl(gomponents.Text("E-Commerce Operations Dashboard")),
			html.StyleEl(gomponents.Raw(pageStyle)),
		),
		html.Body(
			html.H1(gomponents.Text("E-Commerce Operations Dashboard")),
			rangeForm(v.Range),

			html.Section(
				html.H2(gomponents.Text("Orders by City & Hub")),
				ordersKPICards(v.OrdersKPI, v.OrdersKPIErr),
				ordersSection(v.Orders),
				html.A(html.Class("download"), html.Href("/export/orders.csv"+query), gomponents.Text("Download Orders CSV")),
			),

			html.Section(
				html.H2(gomponents.Text("Driver Performance Metrics")),
				driversSection(v.Drivers),
				html.A(html.Class("download"), html.Href("/export/drivers.csv"+query), gomponents.Text("Download Driver Metrics CSV")),
			),

			html.Section(
				html.H2(gomponents.Text("Revenue by City & Hub")),
				revenueKPICards(v.RevenueKPI, v.RevenueKPIErr),
				revenueSection(v.Revenue),
				html.A(html.Class("download"), html.Href("/export/revenue.csv"+query), gomponents.Text("Download Revenue CSV")),
			),
		),
	)
}

func rangeForm(r models.DateRange) gomponents.Node {
	return html.Form(
		html.Class("range"),
		html.Method("get"),
		html.Action("/"),
		html.Label(
			gomponents.Text("Start Date"),
			html.Input(html.Type("date"), html.Name("start"), html.Value(r.StartString())),
		),
		html.Label(
			gomponents.Text("End Date"),
			html.Input(html.Type("date"), html.Name("end"), html.Value(r.EndString())),
		),
		html.Button(html.Type("submit"), gomponents.Text("Apply")),
	)
}

func kpiCard(label, value string) gomponents.Node {
	return html.Div(
		html.Class("card"),
		html.Div(html.Class("label"), gomponents.Text(label)),
		html.Div(html.Class("value"), gomponents.Text(value)),
	)
}

func ordersKPICards(kpi models.OrdersKPI, err error) gomponents.Node {
	if err != nil {
		return html.P(html.Class("error"), gomponents.Text("Error computing order KPIs: "+err.Error()))
	}
	return html.Div(
		html.Class("cards"),
		kpiCard("Total Orders", fmt.Sprintf("%d", kpi.TotalOrders)),
		kpiCard("Cancelled Orders", fmt.Sprintf("%d", kpi.CancelledOrders)),
		kpiCard("Cancellation Rate", fmt.Sprintf("%.2f%%", kpi.CancelledPercent)),
	)
}

func revenueKPICards(kpi models.RevenueKPI, err error) gomponents.Node {
	if err != nil {
		return html.P(html.Class("error"), gomponents.Text("Error computing revenue KPIs: "+err.Error()))
	}
	return html.Div(
		html.Class("cards"),
		kpiCard("Total Revenue", fmt.Sprintf("$%.2f", kpi.TotalRevenue)),
		kpiCard("Total Orders", fmt.Sprintf("%d", kpi.TotalOrders)),
		kpiCard("Avg Order Value", fmt.Sprintf("$%.2f", kpi.AvgOrderValue)),
	)
}

func ordersSection(s models.Section[models.OrdersByHubRow]) gomponents.Node {
	if s.Err != nil {
		return html.P(html.Class("error"), gomponents.Text("Error executing orders query: "+s.Err.Error()))
	}
	if s.Empty() {
		return html.P(html.Class("warning"), gomponents.Text("No order data for selected filters."))
	}

	rows := make([]gomponents.Node, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Text(r.City)),
			html.Td(gomponents.Text(r.Hub)),
			html.Td(gomponents.Textf("%d", r.TotalOrders)),
			html.Td(gomponents.Textf("%d", r.CancelledOrders)),
			html.Td(gomponents.Textf("%.2f", r.CancelledPercent)),
		))
	}
	return html.Table(
		html.THead(html.Tr(
			html.Th(gomponents.Text("City")),
			html.Th(gomponents.Text("Hub")),
			html.Th(gomponents.Text("Finished Orders")),
			html.Th(gomponents.Text("Cancelled Orders")),
			html.Th(gomponents.Text("Cancelled %")),
		)),
		html.TBody(gomponents.Group(rows)),
	)
}

func driversSection(s models.Section[models.DriverMetricsRow]) gomponents.Node {
	if s.Err != nil {
		return html.P(html.Class("error"), gomponents.Text("Error processing driver data: "+s.Err.Error()))
	}
	if s.Empty() {
		return html.P(html.Class("warning"), gomponents.Text("No driver data available for selected date range."))
	}

	rows := make([]gomponents.Node, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Textf("%d", r.DriverID)),
			html.Td(gomponents.Textf("%d", r.TotalDeliveries)),
			html.Td(gomponents.Textf("%.2f", r.AvgDeliveryDistance)),
			html.Td(gomponents.Textf("%d", r.FailureCount)),
			html.Td(gomponents.Textf("%.2f", r.FailRatePercent)),
			html.Td(gomponents.Textf("%.2f", r.AvgDeliveryTimeMins)),
			html.Td(gomponents.Textf("%d", r.SuspectDurations)),
		))
	}
	return html.Table(
		html.THead(html.Tr(
			html.Th(gomponents.Text("Driver")),
			html.Th(gomponents.Text("Deliveries")),
			html.Th(gomponents.Text("Avg Distance (m)")),
			html.Th(gomponents.Text("Failures")),
			html.Th(gomponents.Text("Failure Rate %")),
			html.Th(gomponents.Text("Avg Time (mins)")),
			html.Th(gomponents.Text("Suspect Durations")),
		)),
		html.TBody(gomponents.Group(rows)),
	)
}

func revenueSection(s models.Section[models.RevenueByHubRow]) gomponents.Node {
	if s.Err != nil {
		return html.P(html.Class("error"), gomponents.Text("Error executing revenue query: "+s.Err.Error()))
	}
	if s.Empty() {
		return html.P(html.Class("warning"), gomponents.Text("No revenue data available for selected date range."))
	}

	rows := make([]gomponents.Node, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Text(r.City)),
			html.Td(gomponents.Text(r.Hub)),
			html.Td(gomponents.Textf("%d", r.TotalOrders)),
			html.Td(gomponents.Textf("%.2f", r.TotalRevenue)),
			html.Td(gomponents.Textf("%.2f", r.AvgPaymentAmount)),
		))
	}
	return gomponents.Group([]gomponents.Node{
		html.Table(
			html.THead(html.Tr(
				html.Th(gomponents.Text("City")),
				html.Th(gomponents.Text("Hub")),
				html.Th(gomponents.Text("Orders")),
				html.Th(gomponents.Text("Total Revenue")),
				html.Th(gomponents.Text("Avg Payment")),
			)),
			html.TBody(gomponents.Group(rows)),
		),
		html.H3(gomponents.Text("Total Revenue by City and Hub")),
		revenueChart(s.Rows),
	})
}

// revenueChart draws a grouped bar chart as inline SVG: one bar per hub,
// colored by city, scaled against the largest revenue in the result set.
func revenueChart(rows []models.RevenueByHubRow) gomponents.Node {
	const (
		chartW  = 1000
		chartH  = 320
		marginB = 70
		marginT = 10
	)
	if len(rows) == 0 {
		return nil
	}

	maxRevenue := 0.0
	for _, r := range rows {
		if r.TotalRevenue > maxRevenue {
			maxRevenue = r.TotalRevenue
		}
	}
	if maxRevenue == 0 {
		maxRevenue = 1
	}

	cityColor := map[string]string{}
	for _, r := range rows {
		if _, ok := cityColor[r.City]; !ok {
			cityColor[r.City] = cityPalette[len(cityColor)%len(cityPalette)]
		}
	}

	plotH := float64(chartH - marginB - marginT)
	slot := float64(chartW) / float64(len(rows))
	barW := slot * 0.7

	bars := make([]gomponents.Node, 0, len(rows)*2)
	for i, r := range rows {
		h := r.TotalRevenue / maxRevenue * plotH
		x := float64(i)*slot + (slot-barW)/2
		y := marginT + plotH - h
		bars = append(bars,
			gomponents.El("rect",
				gomponents.Attr("x", fmt.Sprintf("%.1f", x)),
				gomponents.Attr("y", fmt.Sprintf("%.1f", y)),
				gomponents.Attr("width", fmt.Sprintf("%.1f", barW)),
				gomponents.Attr("height", fmt.Sprintf("%.1f", h)),
				gomponents.Attr("fill", cityColor[r.City]),
				gomponents.El("title", gomponents.Textf("%s / %s: %.2f", r.City, r.Hub, r.TotalRevenue)),
			),
			gomponents.El("text",
				gomponents.Attr("x", fmt.Sprintf("%.1f", x+barW/2)),
				gomponents.Attr("y", fmt.Sprintf("%d", chartH-marginB+14)),
				gomponents.Attr("text-anchor", "end"),
				gomponents.Attr("font-size", "10"),
				gomponents.Attr("transform", fmt.Sprintf("rotate(-40 %.1f %d)", x+barW/2, chartH-marginB+14)),
				gomponents.Text(r.Hub),
			),
		)
	}

	legend := make([]gomponents.Node, 0, len(cityColor)*2)
	i := 0
	for _, r := range rows {
		color, ok := cityColor[r.City]
		if !ok {
			continue
		}
		delete(cityColor, r.City)
		lx := 10 + i*160
		legend = append(legend,
			gomponents.El("rect",
				gomponents.Attr("x", fmt.Sprintf("%d", lx)),
				gomponents.Attr("y", fmt.Sprintf("%d", chartH-16)),
				gomponents.Attr("width", "12"),
				gomponents.Attr("height", "12"),
				gomponents.Attr("fill", color),
			),
			gomponents.El("text",
				gomponents.Attr("x", fmt.Sprintf("%d", lx+18)),
				gomponents.Attr("y", fmt.Sprintf("%d", chartH-6)),
				gomponents.Attr("font-size", "12"),
				gomponents.Text(r.City),
			),
		)
		i++
	}

	return gomponents.El("svg",
		gomponents.Attr("width", fmt.Sprintf("%d", chartW)),
		gomponents.Attr("height", fmt.Sprintf("%d", chartH)),
		gomponents.Attr("role", "img"),
		gomponents.Group(bars),
		gomponents.Group(legend),
	)
}
