package assistant

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/vkarpov/plantmind/internal/models"
)

const instructionTemplate = `You are a maintenance assistant at an industrial plant. Answer the mechanic's question using the repair history below. Be specific and practical; if the history does not cover the problem, say so and suggest the closest known fix.
{{if .Equipment}}
Equipment: {{.Equipment}}
{{end}}{{if .Repairs}}
Past repairs:
{{range .Repairs}}- {{.RepairedAt.Format "2006-01-02"}} {{.Equipment}}: {{.Problem}} — fixed: {{.Solution}} ({{.Mechanic}}, {{.DurationMinutes}} min)
{{end}}{{end}}
Question: {{.Question}}

Answer:`

const statisticsTemplate = `You are a maintenance assistant at an industrial plant. Answer the question using only the breakdown records below. Give concrete numbers; do not invent data.
{{if .Equipment}}
Equipment: {{.Equipment}}
{{end}}{{if .Breakdowns}}
Breakdown records:
{{range .Breakdowns}}- {{.ReportedAt.Format "2006-01-02"}} {{.Equipment}} ({{.Area}}): {{.Cause}}, downtime {{.DowntimeMinutes}} min
{{end}}{{end}}
Question: {{.Question}}

Answer:`

const generalTemplate = `You are a maintenance assistant at an industrial plant. You help mechanics with repair instructions, breakdown statistics and diagnostic schedules. Answer briefly.

Question: {{.Question}}

Answer:`

var promptTemplates = map[QueryKind]*template.Template{
	KindInstruction: template.Must(template.New("instruction").Parse(instructionTemplate)),
	KindStatistics:  template.Must(template.New("statistics").Parse(statisticsTemplate)),
	KindGeneral:     template.Must(template.New("general").Parse(generalTemplate)),
}

// promptData feeds the prompt templates.
type promptData struct {
	Question   string
	Equipment  string
	Repairs    []models.RepairRecord
	Breakdowns []models.BreakdownReport
}

// BuildPrompt renders the template for kind with the question and whatever
// history context is supplied.
func BuildPrompt(kind QueryKind, data promptData) (string, error) {
	tmpl, ok := promptTemplates[kind]
	if !ok {
		tmpl = promptTemplates[KindGeneral]
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("assistant: render %s prompt: %w", kind, err)
	}
	return sb.String(), nil
}
