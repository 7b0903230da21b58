package assistant

import (
	"context"
	"fmt"

	"github.com/vkarpov/plantmind/internal/models"
	"github.com/vkarpov/plantmind/internal/reports"
	"gorm.io/gorm"
)

// historyLimit bounds how many records feed one prompt.
const historyLimit = 20

// Generator produces model completions. *Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HistorySource supplies repair and breakdown context for prompts.
type HistorySource interface {
	RepairHistory(equipment string, limit int) ([]models.RepairRecord, error)
	RecentBreakdowns(equipment string, limit int) ([]models.BreakdownReport, error)
}

// Assistant classifies a question, grounds it in plant history and asks the
// model.
type Assistant struct {
	gen     Generator
	history HistorySource
}

func New(gen Generator, history HistorySource) *Assistant {
	return &Assistant{gen: gen, history: history}
}

// Answer responds to a free-form question. Equipment is optional; when set,
// instruction questions are grounded in that equipment's repair history and
// statistics questions in its breakdown records.
func (a *Assistant) Answer(ctx context.Context, question, equipment string) (string, QueryKind, error) {
	kind := ClassifyQuery(question)
	data := promptData{Question: question, Equipment: equipment}

	if equipment != "" {
		switch kind {
		case KindInstruction:
			repairs, err := a.history.RepairHistory(equipment, historyLimit)
			if err != nil {
				return "", kind, fmt.Errorf("assistant: load repair history: %w", err)
			}
			data.Repairs = repairs
		case KindStatistics:
			breakdowns, err := a.history.RecentBreakdowns(equipment, historyLimit)
			if err != nil {
				return "", kind, fmt.Errorf("assistant: load breakdowns: %w", err)
			}
			data.Breakdowns = breakdowns
		}
	}

	prompt, err := BuildPrompt(kind, data)
	if err != nil {
		return "", kind, err
	}
	answer, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", kind, err
	}
	return answer, kind, nil
}

// DBHistory adapts the reports queries to the HistorySource interface.
type DBHistory struct {
	db *gorm.DB
}

func NewDBHistory(db *gorm.DB) *DBHistory {
	return &DBHistory{db: db}
}

func (h *DBHistory) RepairHistory(equipment string, limit int) ([]models.RepairRecord, error) {
	return reports.RepairHistory(h.db, equipment, limit)
}

func (h *DBHistory) RecentBreakdowns(equipment string, limit int) ([]models.BreakdownReport, error) {
	return reports.RecentBreakdowns(h.db, equipment, limit)
}
