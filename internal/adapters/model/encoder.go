package model

import (
	"delivery-time-service/internal/domain"
	"fmt"
	"math"
	"slices"
)

// Encoder maps an AugmentedRecord to the input vector a model expects.
type Encoder struct {
	specs []FeatureSpec
	names []string
	index map[string]int
}

func NewEncoder(specs []FeatureSpec) (*Encoder, error) {
	if err := validateSpecs(specs); err != nil {
		return nil, err
	}

	e := &Encoder{specs: specs, index: map[string]int{}}
	for _, s := range specs {
		switch s.Kind {
		case KindOneHot:
			for _, c := range s.Categories {
				e.add(s.Column + "_" + c)
			}
		default:
			e.add(s.Column)
		}
	}
	return e, nil
}

func (e *Encoder) add(name string) {
	e.index[name] = len(e.names)
	e.names = append(e.names, name)
}

// Width is the length of every encoded vector.
func (e *Encoder) Width() int { return len(e.names) }

// Names lists the encoded inputs in order.
func (e *Encoder) Names() []string { return slices.Clone(e.names) }

func (e *Encoder) Index(name string) (int, bool) {
	i, ok := e.index[name]
	return i, ok
}

// Encode builds the input vector for rec. An empty categorical value is
// encoded as missing (NaN); a category the model never saw is an error.
func (e *Encoder) Encode(rec domain.AugmentedRecord) ([]float64, error) {
	out := make([]float64, 0, len(e.names))

	for _, s := range e.specs {
		v, ok := rec.Value(s.Column)
		if !ok {
			return nil, fmt.Errorf("encode: record has no column %q", s.Column)
		}

		switch s.Kind {
		case KindNumeric:
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("encode: column %q is not numeric", s.Column)
			}
			out = append(out, f)

		case KindOneHot:
			cat, err := category(s, v)
			if err != nil {
				return nil, err
			}
			for _, c := range s.Categories {
				switch {
				case cat == "":
					out = append(out, math.NaN())
				case c == cat:
					out = append(out, 1)
				default:
					out = append(out, 0)
				}
			}

		case KindOrdinal:
			cat, err := category(s, v)
			if err != nil {
				return nil, err
			}
			if cat == "" {
				out = append(out, math.NaN())
				continue
			}
			out = append(out, float64(slices.Index(s.Categories, cat)))
		}
	}

	return out, nil
}

func category(s FeatureSpec, v any) (string, error) {
	cat, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("encode: column %q is not categorical", s.Column)
	}
	if cat != "" && !slices.Contains(s.Categories, cat) {
		return "", fmt.Errorf("encode: column %q: unknown category %q", s.Column, cat)
	}
	return cat, nil
}
