package mailproxy

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/mail"
	"github.com/dtroode/m2m-server/internal/model"
)

var funcs = template.FuncMap{
	"euro":    func(d decimal.Decimal) string { return "€" + d.StringFixed(2) },
	"dmy":     displayDate,
	"nonzero": func(s string) bool { return strings.TrimSpace(s) != "" },
}

var giftCardTemplate = template.Must(template.New("giftcard").Funcs(funcs).Parse(`
<h2>Gift Card Payment Request</h2>
<p><strong>Therapist:</strong> {{.UserName}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Gift Card Amount:</strong> {{euro .Amount}}</p>
{{if nonzero .GiftCardNumber}}<p><strong>Gift Card Number:</strong> {{.GiftCardNumber}}</p>{{end}}
<p><strong>Comment:</strong> {{.Comment}}</p>
`))

var holidayTemplate = template.Must(template.New("holiday").Funcs(funcs).Parse(`
<h2>Holiday Request</h2>
<p><strong>Therapist:</strong> {{.UserName}}</p>
<p><strong>Email:</strong> {{if nonzero .UserEmail}}{{.UserEmail}}{{else}}Not provided{{end}}</p>
<p><strong>Period:</strong> From {{dmy .StartDate}} to {{dmy .EndDate}} ({{.DayCount}} days)</p>
{{if nonzero .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
<hr>
<p style="font-size: 0.9em; color: #666;">This request was sent automatically from the M2M Payment Calculator app.</p>
`))

var reportTemplate = template.Must(template.New("report").Funcs(funcs).Parse(`
<h2>M2M Payment Report - {{.MonthName}}</h2>
<p><strong>Therapist:</strong> {{.UserName}}</p>
<h3>Payment Summary</h3>
<table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
<thead>
<tr style="background-color: #f2f2f2;">
<th style="padding: 10px; border: 1px solid #ddd;">Date</th>
<th style="padding: 10px; border: 1px solid #ddd;">Due Amount (40%)</th>
<th style="padding: 10px; border: 1px solid #ddd;">Gift Card</th>
<th style="padding: 10px; border: 1px solid #ddd;">Note</th>
</tr>
</thead>
<tbody>
{{range .Payments}}<tr>
<td style="padding: 8px; border: 1px solid #ddd;">{{dmy .Date}}</td>
<td style="padding: 8px; border: 1px solid #ddd;">{{euro .DueAmount}}</td>
<td style="padding: 8px; border: 1px solid #ddd;">{{euro .GiftCardAmount}}</td>
<td style="padding: 8px; border: 1px solid #ddd;">{{.Note}}</td>
</tr>
{{end}}</tbody>
<tfoot>
<tr style="background-color: #f2f2f2; font-weight: bold;">
<td style="padding: 10px; border: 1px solid #ddd;">Total</td>
<td style="padding: 10px; border: 1px solid #ddd;">{{euro .TotalDue}}</td>
<td style="padding: 10px; border: 1px solid #ddd;">{{euro .TotalGiftCard}}</td>
<td style="padding: 10px; border: 1px solid #ddd;"></td>
</tr>
</tfoot>
</table>
<p><strong>Total Earnings:</strong> {{euro .TotalEarnings}}</p>
<p><em>This is an automatically generated report from the M2M Payment Calculator.</em></p>
`))

type holidayView struct {
	mail.HolidayRequest
	DayCount int
}

type reportView struct {
	mail.MonthlyReportRequest
	MonthName string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// displayDate turns 2024-03-15 into 15/03/2024. Unparseable input is returned as is.
func displayDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
