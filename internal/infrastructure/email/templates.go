package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/corvid-crm/corvid/internal/shared/biztime"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

const (
	tplEventReminder = "event_reminder"
	tplEventAssigned = "event_assigned"
	tplTaskAssigned  = "task_assigned"
	tplTaskDueSoon   = "task_due_soon"
	tplTaskOverdue   = "task_overdue"
	tplTicketReply   = "ticket_reply"
	tplNewTicket     = "new_ticket"
)

type templates struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

var funcs = map[string]any{
	"when": formatWhen,
}

func mustParseTemplates() *templates {
	return &templates{
		html: htmltemplate.Must(htmltemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
		text: texttemplate.Must(texttemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.txt")),
	}
}

func (t *templates) render(name string, data any) (string, string, error) {
	var html, text bytes.Buffer
	if err := t.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", name, err)
	}
	if err := t.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", name, err)
	}
	return html.String(), text.String(), nil
}

// formatWhen renders an instant in the business timezone.
func formatWhen(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.In(biztime.Location()).Format("Mon 2 Jan 2006 15:04 MST")
	case *time.Time:
		if t == nil {
			return "no due date"
		}
		return t.In(biztime.Location()).Format("Mon 2 Jan 2006 15:04 MST")
	default:
		return ""
	}
}
