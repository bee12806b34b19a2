package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

const extractSchemaHint = `Respond with a valid JSON object using this schema (omit fields you cannot determine):
{
  "steel_members": [{"size": "W12x26", "count": 12, "length_ft": 30, "grade": "A992", "usage": "beam"}],
  "concrete_elements": [{"description": "slab on grade", "kind": "slab", "length_ft": 120, "width_ft": 80, "thickness_in": 6, "volume_cy": 0, "grade": "3000 psi", "count": 1}],
  "rebar_specs": [{"bar_size": "#5", "spacing_in": 12, "location": "footings", "weight_lbs": 0}],
  "foundation_type": "spread footings",
  "floor_area_sqft": 24000,
  "floors": 2,
  "roof_type": "metal deck",
  "notes": ["any assumption you made"]
}`

// extractionGroups declares the deep-extraction fan-out in merge order.
// MEP, site and general sheets are never deep-extracted; their scope is
// covered by area-based allowances in the takeoff.
var extractionGroups = []struct {
	sheetType model.SheetType
	focus     string
}{
	{model.SheetTypeStructural, "Read the framing plans. List every steel member with its section size, count, typical length in feet, grade and usage (beam, column or brace). Count members by tick marks and grid lines, not by schedule tables."},
	{model.SheetTypeFoundation, "Read the foundation plans. List every concrete element (footings, slabs, grade beams, piers, walls) with plan dimensions or explicit volume, concrete grade and count. Record the foundation system type and any rebar callouts."},
	{model.SheetTypeSchedule, "Read the schedule tables (beam, column, footing and lintel schedules). List every steel member row with section size, count and length, and every rebar callout. Schedule counts are authoritative tabulated quantities."},
	{model.SheetTypeElevation, "Read the elevations and sections. Record the number of floors, roof type and construction, overall floor area if dimensioned, and any member sizes visible only in section."},
}

type groupResult struct {
	data  model.StructuralData
	pages int
	err   error
}

// ExtractStructural implements pass 2: fan the classified sheet groups out
// to the oracle concurrently and merge the fragments into one canonical
// record. Individual group failures degrade the result; the pass errors
// only when every requested group fails.
func ExtractStructural(ctx context.Context, files []model.SourceFile, inventory []model.SheetEntry, oracle oracleCaller) (model.StructuralData, model.ExtractionMeta, error) {
	pagesByType := make(map[model.SheetType][]int)
	for _, e := range inventory {
		pagesByType[e.SheetType] = append(pagesByType[e.SheetType], e.PageNumber)
	}

	requested := make([]model.SheetType, 0, len(extractionGroups))
	for _, g := range extractionGroups {
		if len(pagesByType[g.sheetType]) > 0 {
			requested = append(requested, g.sheetType)
		}
	}
	// A set with no structural sheets at all still deserves one read; treat
	// the whole set as a structural group rather than giving up here.
	if len(requested) == 0 {
		var all []int
		for _, e := range inventory {
			all = append(all, e.PageNumber)
		}
		if len(all) == 0 {
			all = []int{1}
		}
		pagesByType[model.SheetTypeStructural] = all
		requested = []model.SheetType{model.SheetTypeStructural}
		zap.L().Warn("extract: no deep-extraction sheets classified, reading whole set as structural")
	}

	meta := model.ExtractionMeta{GroupsRequested: requested}

	results := make([]groupResult, len(extractionGroups))
	g, gctx := errgroup.WithContext(ctx)

	for i, grp := range extractionGroups {
		pages := pagesByType[grp.sheetType]
		if len(pages) == 0 {
			continue
		}
		g.Go(func() error {
			data, err := extractGroup(gctx, files, grp.sheetType, grp.focus, pages, oracle)
			results[i] = groupResult{data: data, pages: len(pages), err: err}
			// Group failures are recorded, not propagated, so sibling
			// groups keep running.
			return nil
		})
	}
	_ = g.Wait()

	var merged model.StructuralData
	failed := 0
	for i, grp := range extractionGroups {
		res := results[i]
		if res.pages == 0 && len(pagesByType[grp.sheetType]) == 0 {
			continue
		}
		if res.err != nil {
			failed++
			meta.GroupsFailed = append(meta.GroupsFailed, grp.sheetType)
			zap.L().Warn("extract: group failed",
				zap.String("group", string(grp.sheetType)),
				zap.Error(res.err),
			)
			continue
		}
		mergeStructural(&merged, res.data)
		meta.SheetsExtracted += res.pages
	}

	if failed == len(requested) {
		return model.StructuralData{}, meta, eris.New("pipeline: every extraction group failed")
	}

	zap.L().Info("extract: merged structural data",
		zap.Int("steel_members", len(merged.SteelMembers)),
		zap.Int("concrete_elements", len(merged.ConcreteElements)),
		zap.Int("rebar_specs", len(merged.RebarSpecs)),
		zap.Int("groups_failed", failed),
	)
	return merged, meta, nil
}

func extractGroup(ctx context.Context, files []model.SourceFile, sheetType model.SheetType, focus string, pages []int, oracle oracleCaller) (model.StructuralData, error) {
	sort.Ints(pages)
	pageList := make([]string, 0, len(pages))
	for _, p := range pages {
		pageList = append(pageList, fmt.Sprintf("%d", p))
	}

	system := fmt.Sprintf("You are a structural estimator performing a quantity takeoff from construction drawings. %s\n\n%s", focus, extractSchemaHint)
	prompt := fmt.Sprintf("Focus on pages %s of the attached drawing set. Extract only what those pages show.", strings.Join(pageList, ", "))

	resp, err := oracle.call(ctx, anthropic.MessageRequest{
		System:    system,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		Documents: toDocuments(files),
	})
	if err != nil {
		return model.StructuralData{}, eris.Wrapf(err, "pipeline: extract %s group", sheetType)
	}

	var data model.StructuralData
	if err := decodeOracleJSON(anthropic.Text(resp), &data); err != nil {
		return model.StructuralData{}, eris.Wrapf(err, "pipeline: parse %s group", sheetType)
	}

	// Schedule rows are tabulated counts; everything else is counted off a
	// plan view. The takeoff uses this to resolve count disagreements.
	source := model.MemberSourcePlan
	if sheetType == model.SheetTypeSchedule {
		source = model.MemberSourceSchedule
	}
	for i := range data.SteelMembers {
		if data.SteelMembers[i].Source == "" {
			data.SteelMembers[i].Source = source
		}
	}
	return data, nil
}

// mergeStructural folds a group fragment into the canonical record. Arrays
// are concatenated; scalar fields are last-non-empty-wins in group merge
// order.
func mergeStructural(dst *model.StructuralData, src model.StructuralData) {
	dst.SteelMembers = append(dst.SteelMembers, src.SteelMembers...)
	dst.ConcreteElements = append(dst.ConcreteElements, src.ConcreteElements...)
	dst.RebarSpecs = append(dst.RebarSpecs, src.RebarSpecs...)
	dst.Notes = append(dst.Notes, src.Notes...)

	if src.FoundationType != "" {
		dst.FoundationType = src.FoundationType
	}
	if src.FloorAreaSqft > 0 {
		dst.FloorAreaSqft = src.FloorAreaSqft
	}
	if src.Floors > 0 {
		dst.Floors = src.Floors
	}
	if src.RoofType != "" {
		dst.RoofType = src.RoofType
	}
}
