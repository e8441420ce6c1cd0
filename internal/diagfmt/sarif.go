package diagfmt

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"bril/internal/diag"
	"bril/internal/ir"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
	Message          *sarifMessage `json:"message,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn,omitempty"`
}

// Sarif форматирует диагностики всех переданных мешков в один SARIF (v2.1.0)
// run. Правила перечисляются по кодам, которые реально встретились.
func Sarif(w io.Writer, bags []*diag.Bag, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    meta.ToolName,
			Version: meta.ToolVersion,
			Rules:   []sarifRule{},
		}},
		Results: []sarifResult{},
	}

	seen := make(map[diag.Code]struct{})
	success := true
	for _, bag := range bags {
		if bag == nil {
			continue
		}
		for _, d := range bag.Items() {
			if d.Severity >= diag.SevError {
				success = false
			}
			seen[d.Code] = struct{}{}
			run.Results = append(run.Results, sarifResultOf(d, meta))
		}
	}

	codes := make([]diag.Code, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
			ID:               c.ID(),
			ShortDescription: sarifMessage{Text: c.Title()},
		})
	}

	if meta.InvocationArgs != nil {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: success,
		}}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func sarifResultOf(d diag.Diagnostic, meta SarifRunMeta) sarifResult {
	res := sarifResult{
		RuleID:    d.Code.ID(),
		Level:     sarifLevel(d.Severity),
		Message:   sarifMessage{Text: d.Text()},
		Locations: []sarifLocation{{PhysicalLocation: sarifPhysicalOf(d.Primary, meta)}},
	}
	for _, n := range d.Notes {
		res.RelatedLocations = append(res.RelatedLocations, sarifLocation{
			PhysicalLocation: sarifPhysicalOf(n.Loc, meta),
			Message:          &sarifMessage{Text: n.Msg},
		})
	}
	return res
}

func sarifPhysicalOf(loc ir.Location, meta SarifRunMeta) sarifPhysical {
	p := sarifPhysical{ArtifactLocation: sarifArtifact{
		URI: strings.ReplaceAll(formatPath(loc.File, meta.PathMode, meta.BaseDir), "\\", "/"),
	}}
	if loc.Line > 0 {
		p.Region = &sarifRegion{StartLine: loc.Line, StartColumn: loc.Col}
	}
	return p
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}
