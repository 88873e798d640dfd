package model

import (
	"delivery-time-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

type FeatureKind string

const (
	KindNumeric FeatureKind = "numeric"
	KindOneHot  FeatureKind = "onehot"
	KindOrdinal FeatureKind = "ordinal"
)

// FeatureSpec declares how one record column becomes model inputs.
// Categories are required for onehot and ordinal features; for ordinal
// features their order is the encoded value.
type FeatureSpec struct {
	Column     string      `json:"column"`
	Kind       FeatureKind `json:"kind"`
	Categories []string    `json:"categories,omitempty"`
}

// Node is one entry of an XGBoost JSON tree dump.
type Node struct {
	NodeID         int      `json:"nodeid"`
	Split          string   `json:"split,omitempty"`
	SplitCondition float64  `json:"split_condition,omitempty"`
	Yes            int      `json:"yes"`
	No             int      `json:"no"`
	Missing        int      `json:"missing"`
	Leaf           *float64 `json:"leaf,omitempty"`
	Children       []*Node  `json:"children,omitempty"`
}

// Artifact is the on-disk form of a trained model.
type Artifact struct {
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	BaseScore float64       `json:"base_score"`
	Features  []FeatureSpec `json:"features"`
	Trees     []*Node       `json:"trees"`
}

// LoadFile reads and compiles the artifact at path.
func LoadFile(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model: read %q: %w", path, err)
	}

	m, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", path, err)
	}
	return m, nil
}

// Parse decodes an artifact and checks it against the record schema.
func Parse(b []byte) (*Model, error) {
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	return Compile(a)
}

// Compile validates a and resolves every split to an encoded feature index.
func Compile(a Artifact) (*Model, error) {
	if strings.TrimSpace(a.Version) == "" {
		return nil, errors.New("compile model: version is required")
	}
	if len(a.Trees) == 0 {
		return nil, errors.New("compile model: no trees")
	}

	enc, err := NewEncoder(a.Features)
	if err != nil {
		return nil, fmt.Errorf("compile model: %w", err)
	}

	trees := make([]tree, 0, len(a.Trees))
	for i, root := range a.Trees {
		t, err := compileTree(root, enc)
		if err != nil {
			return nil, fmt.Errorf("compile model: tree #%d: %w", i, err)
		}
		trees = append(trees, t)
	}

	return &Model{
		name:      a.Name,
		version:   a.Version,
		baseScore: a.BaseScore,
		encoder:   enc,
		trees:     trees,
	}, nil
}

func validateSpecs(specs []FeatureSpec) error {
	if len(specs) == 0 {
		return errors.New("feature schema is empty")
	}

	seen := map[string]struct{}{}
	for i, s := range specs {
		if !slices.Contains(domain.RecordColumns, s.Column) {
			return fmt.Errorf("feature #%d: unknown column %q", i, s.Column)
		}
		if _, ok := seen[s.Column]; ok {
			return fmt.Errorf("feature #%d: duplicate column %q", i, s.Column)
		}
		seen[s.Column] = struct{}{}

		switch s.Kind {
		case KindNumeric:
			if len(s.Categories) > 0 {
				return fmt.Errorf("feature %q: numeric feature must not list categories", s.Column)
			}
		case KindOneHot, KindOrdinal:
			if len(s.Categories) == 0 {
				return fmt.Errorf("feature %q: %s feature needs categories", s.Column, s.Kind)
			}
			for _, c := range s.Categories {
				if c == "" {
					return fmt.Errorf("feature %q: empty category", s.Column)
				}
			}
		default:
			return fmt.Errorf("feature %q: unknown kind %q", s.Column, s.Kind)
		}
	}
	return nil
}

// Resolve a split name to an input index. Dumps made without feature
// names use "f<index>".
func resolveSplit(split string, enc *Encoder) (int, error) {
	if idx, ok := enc.Index(split); ok {
		return idx, nil
	}
	if rest, ok := strings.CutPrefix(split, "f"); ok {
		if idx, err := strconv.Atoi(rest); err == nil {
			if idx < 0 || idx >= enc.Width() {
				return 0, fmt.Errorf("split %q out of range (%d inputs)", split, enc.Width())
			}
			return idx, nil
		}
	}
	return 0, fmt.Errorf("split %q does not name a feature", split)
}
