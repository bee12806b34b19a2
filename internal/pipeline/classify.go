package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

const classifySystemPrompt = `You are a construction drawing reviewer. For every page of the attached drawing set, identify what kind of sheet it is. Respond with a valid JSON object:
{"sheets": [{"page": <1-based page number>, "label": "<free text, e.g. foundation plan, framing plan, column schedule, elevation, electrical>", "name": "<sheet number if visible, e.g. S-101>", "scale": "<drawing scale if visible>"}]}`

// ClassifySheets implements pass 1: label every input page with a normalized
// sheet type. Classification failure is non-fatal: on empty input or an
// oracle error it returns a single default general entry so downstream
// stages degrade to treating everything as unclassified.
func ClassifySheets(ctx context.Context, files []model.SourceFile, oracle oracleCaller) []model.SheetEntry {
	if len(files) == 0 {
		zap.L().Warn("classify: no input files, defaulting to general")
		return defaultInventory(1)
	}

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	prompt := fmt.Sprintf("Classify each page of this drawing set. Files in order: %s", strings.Join(names, ", "))

	resp, err := oracle.call(ctx, anthropic.MessageRequest{
		System:    classifySystemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		Documents: toDocuments(files),
	})
	if err != nil {
		zap.L().Warn("classify: oracle call failed, defaulting to general", zap.Error(err))
		return defaultInventory(len(files))
	}

	var parsed struct {
		Sheets []struct {
			Page  int    `json:"page"`
			Label string `json:"label"`
			Name  string `json:"name"`
			Scale string `json:"scale"`
		} `json:"sheets"`
	}
	if err := decodeOracleJSON(anthropic.Text(resp), &parsed); err != nil {
		zap.L().Warn("classify: unparseable oracle output, defaulting to general", zap.Error(err))
		return defaultInventory(len(files))
	}
	if len(parsed.Sheets) == 0 {
		return defaultInventory(len(files))
	}

	inventory := make([]model.SheetEntry, 0, len(parsed.Sheets))
	for i, s := range parsed.Sheets {
		page := s.Page
		if page <= 0 {
			page = i + 1
		}
		entry := model.SheetEntry{
			PageNumber: page,
			SheetType:  model.NormalizeSheetType(s.Label),
			SheetName:  s.Name,
			Scale:      s.Scale,
		}
		inventory = append(inventory, entry)
		zap.L().Debug("classify: sheet labeled",
			zap.Int("page", entry.PageNumber),
			zap.String("label", s.Label),
			zap.String("sheet_type", string(entry.SheetType)),
		)
	}

	return inventory
}

func defaultInventory(pages int) []model.SheetEntry {
	if pages < 1 {
		pages = 1
	}
	// One general entry is enough for the degraded path; downstream groups
	// everything under general and the coordinator skips deep extraction.
	return []model.SheetEntry{{PageNumber: 1, SheetType: model.SheetTypeGeneral}}
}

func toDocuments(files []model.SourceFile) []anthropic.Document {
	docs := make([]anthropic.Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, anthropic.Document{
			Name:      f.Name,
			MediaType: f.MediaType,
			Data:      f.Data,
		})
	}
	return docs
}
