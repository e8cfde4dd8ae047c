package payfast

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/tasselgroup/storefront/internal/domain"
)

// The redirect document: a hidden form posted to the gateway the moment it
// loads, unconditionally leaving the current page.
var redirectTmpl = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<body>
<form id="payfast-redirect" method="POST" action="{{.Action}}" style="display:none">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
</form>
<script>document.getElementById("payfast-redirect").submit();</script>
</body>
</html>
`))

type formField struct {
	Name  string
	Value string
}

// RedirectForm renders the auto-submitting form for a payment session.
// Fields are emitted in name order so the document is deterministic.
func RedirectForm(session domain.PaymentSession) (string, error) {
	if session.GatewayURL == "" {
		return "", fmt.Errorf("session gateway url is empty")
	}

	fields := make([]formField, 0, len(session.Fields))
	for name, value := range session.Fields {
		fields = append(fields, formField{Name: name, Value: value})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	var buf strings.Builder
	err := redirectTmpl.Execute(&buf, struct {
		Action string
		Fields []formField
	}{Action: session.GatewayURL, Fields: fields})
	if err != nil {
		return "", fmt.Errorf("redirectTmpl.Execute: %w", err)
	}

	return buf.String(), nil
}
