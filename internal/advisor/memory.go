package advisor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	maxRecords    = 10
	promptRecords = 5 // how many recent records to include in the LLM prompt
)

// CycleRecord captures what happened in a single advisor cycle.
type CycleRecord struct {
	Turn        int         `json:"turn"`
	Status      string      `json:"status"`
	Action      string      `json:"action"`
	Source      string      `json:"source"`
	Stability   int         `json:"stability"`
	Treasury    int         `json:"treasury"`
	Support     float64     `json:"player_support"`
	CrisisLevel CrisisLevel `json:"crisis_level"`
	Rationale   string      `json:"rationale,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// CycleMemory manages a ring of recent advisor cycle records.
type CycleMemory struct {
	Records []CycleRecord `json:"records"`

	path string
}

// LoadMemory reads the memory file at path. Returns empty memory if not found.
func LoadMemory(path string) *CycleMemory {
	mem := &CycleMemory{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return mem
	}
	if err := json.Unmarshal(data, mem); err != nil {
		slog.Warn("advisor memory corrupted, starting fresh", "path", path, "error", err)
		return &CycleMemory{path: path}
	}
	return mem
}

// Save writes the memory to disk.
func (m *CycleMemory) Save() error {
	if m.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal advisor memory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("write advisor memory: %w", err)
	}
	return nil
}

// Record adds a cycle record, trimming to maxRecords.
func (m *CycleMemory) Record(r CycleRecord) {
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}

// FormatForPrompt summarizes the last cycles for inclusion in the LLM prompt.
func (m *CycleMemory) FormatForPrompt() string {
	if len(m.Records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Recent Advisor Cycles\n")

	start := max(0, len(m.Records)-promptRecords)
	for _, r := range m.Records[start:] {
		fmt.Fprintf(&b, "- Turn %d (%s): action=%s, stability=%d, treasury=%d, support=%.1f, crisis=%s",
			r.Turn, r.Status, r.Action, r.Stability, r.Treasury, r.Support, r.CrisisLevel)
		if r.Error != "" {
			fmt.Fprintf(&b, ", rejected: %s", r.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
