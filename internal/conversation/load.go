package conversation

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

//go:embed scripts.yaml
var scriptsYAML []byte

type scriptFile struct {
	Scripts []scriptDoc `yaml:"scripts"`
	Details []detailDoc `yaml:"details"`
}

type scriptDoc struct {
	Key       string                `yaml:"key"`
	Responses []string              `yaml:"responses"`
	People    []domain.SearchResult `yaml:"people"`
	Stages    [][]string            `yaml:"stages"`
}

type detailDoc struct {
	Key       string   `yaml:"key"`
	Responses []string `yaml:"responses"`
}

// parseScripts decodes and validates hand-authored scripts. Each stage must
// reference roster IDs, match StageSizes, and be a subset of the stage before.
func parseScripts(data []byte) ([]Script, []DetailScript, error) {
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("decode scripts: %w", err)
	}

	scripts := make([]Script, 0, len(file.Scripts))
	for _, doc := range file.Scripts {
		s, err := doc.build()
		if err != nil {
			return nil, nil, fmt.Errorf("script %q: %w", doc.Key, err)
		}
		scripts = append(scripts, s)
	}

	details := make([]DetailScript, 0, len(file.Details))
	for _, doc := range file.Details {
		if doc.Key == "" {
			return nil, nil, fmt.Errorf("detail script without key")
		}
		if len(doc.Responses) != DetailResponseCount {
			return nil, nil, fmt.Errorf("detail script %q: expected %d responses, got %d", doc.Key, DetailResponseCount, len(doc.Responses))
		}
		details = append(details, DetailScript{Key: doc.Key, Responses: doc.Responses})
	}

	return scripts, details, nil
}

func (doc scriptDoc) build() (Script, error) {
	var s Script
	if doc.Key == "" {
		return s, fmt.Errorf("missing key")
	}
	if len(doc.Responses) != ResponseCount {
		return s, fmt.Errorf("expected %d responses, got %d", ResponseCount, len(doc.Responses))
	}
	if len(doc.Stages) != StageCount {
		return s, fmt.Errorf("expected %d stages, got %d", StageCount, len(doc.Stages))
	}

	roster := make(map[string]domain.SearchResult, len(doc.People))
	for _, p := range doc.People {
		if _, dup := roster[p.ID]; dup {
			return s, fmt.Errorf("duplicate person %q", p.ID)
		}
		roster[p.ID] = p
	}

	s.Key = doc.Key
	copy(s.Responses[:], doc.Responses)

	var previous domain.Set
	for i, ids := range doc.Stages {
		if len(ids) != StageSizes[i] {
			return s, fmt.Errorf("stage %d: expected %d results, got %d", i, StageSizes[i], len(ids))
		}
		current := domain.NewSet(ids...)
		stage := make([]domain.SearchResult, 0, len(ids))
		for _, id := range ids {
			p, ok := roster[id]
			if !ok {
				return s, fmt.Errorf("stage %d: unknown person %q", i, id)
			}
			if previous != nil && !previous.Has(id) {
				return s, fmt.Errorf("stage %d: %q is not in stage %d", i, id, i-1)
			}
			stage = append(stage, p)
		}
		s.Stages[i] = stage
		previous = current
	}

	return s, nil
}

func mustParseEmbedded() ([]Script, []DetailScript) {
	scripts, details, err := parseScripts(scriptsYAML)
	if err != nil {
		panic("conversation: embedded scripts: " + err.Error())
	}
	return scripts, details
}
