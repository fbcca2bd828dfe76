package reporting

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dbaudit/datacheck/runner"
	"github.com/dbaudit/datacheck/templates"
)

const htmlReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Data Validation Report {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
th { background: #f0f0f0; }
.pass { color: #1a7f37; }
.fail { color: #cf222e; }
.skip { color: #9a6700; }
.error { color: #cf222e; font-weight: bold; }
</style>
</head>
<body>
<h1>Data Validation Report</h1>
<p>Run <code>{{.RunID}}</code> finished in {{formatDuration .Duration}} with status
<span class="{{getStatusClass .Status}}">{{getStatusText .Status}}</span>.</p>

<h2>Statistics</h2>
<table>
<tr><th>Total</th><th>Passed</th><th>Failed</th><th>Skipped</th><th>Errored</th></tr>
<tr>
<td>{{.Stats.Total}}</td>
<td>{{.Stats.Passed}} ({{percent .Stats.Passed .Stats.Total}})</td>
<td>{{.Stats.Failed}} ({{percent .Stats.Failed .Stats.Total}})</td>
<td>{{.Stats.Skipped}} ({{percent .Stats.Skipped .Stats.Total}})</td>
<td>{{.Stats.Errored}} ({{percent .Stats.Errored .Stats.Total}})</td>
</tr>
</table>

{{range .Groups}}
<h2>Group: {{.Name}}</h2>
{{if .Description}}<p>{{.Description}}</p>{{end}}
<table>
<tr><th>Test ID</th><th>Name</th><th>Category</th><th>Status</th><th>Duration</th><th>Message</th></tr>
{{range .Outcomes}}
<tr>
<td>{{.TestID}}</td>
<td>{{.Name}}</td>
<td>{{.Category}}</td>
<td class="{{getStatusClass .Status}}">{{getStatusText .Status}}</td>
<td>{{formatDuration .Duration}}</td>
<td>{{.Message}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

// HTMLFormatter formats run reports as a standalone HTML page
type HTMLFormatter struct {
	template *template.Template
}

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter() (*HTMLFormatter, error) {
	tmpl, err := template.New("report").Funcs(templates.GetTemplateFunc()).Parse(htmlReportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return &HTMLFormatter{template: tmpl}, nil
}

// Format formats the report as HTML
func (hf *HTMLFormatter) Format(report *runner.Report) (string, error) {
	var buf bytes.Buffer
	if err := hf.template.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}
