// Package fixture reads and writes the YAML or JSON files the CLI works from:
// question banks, study snapshots and practice answer batches.
package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eslsoft/masterly/internal/entity"
)

// QuestionPool is one course/topic pool in a bank file.
type QuestionPool struct {
	Course    string                `json:"course" yaml:"course"`
	Topic     string                `json:"topic" yaml:"topic"`
	Questions []entity.TestQuestion `json:"questions" yaml:"questions"`
}

// QuestionBankFile is the top-level layout of a question bank file.
type QuestionBankFile struct {
	Pools []QuestionPool `json:"pools" yaml:"pools"`
}

// Snapshot is the study state of one or more learners.
type Snapshot struct {
	Concepts  []entity.StudyConcept `json:"concepts" yaml:"concepts"`
	WeakSpots []entity.WeakSpot     `json:"weak_spots,omitempty" yaml:"weak_spots,omitempty"`
	Reviews   []entity.ReviewLog    `json:"reviews,omitempty" yaml:"reviews,omitempty"`
}

// AnswerBatch is the input of a mastery analysis.
type AnswerBatch struct {
	Course  string                  `json:"course,omitempty" yaml:"course,omitempty"`
	Topic   string                  `json:"topic,omitempty" yaml:"topic,omitempty"`
	Answers []entity.PracticeAnswer `json:"answers" yaml:"answers"`
}

func LoadQuestionBank(path string) (QuestionBankFile, error) {
	var f QuestionBankFile
	if err := decodeFile(path, &f); err != nil {
		return QuestionBankFile{}, err
	}
	for _, pool := range f.Pools {
		for _, q := range pool.Questions {
			if err := q.Validate(); err != nil {
				return QuestionBankFile{}, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return f, nil
}

// LoadSnapshot returns an empty snapshot when path does not exist yet.
func LoadSnapshot(path string) (Snapshot, error) {
	var s Snapshot
	if err := decodeFile(path, &s); err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}
	return s, nil
}

func SaveSnapshot(path string, s Snapshot) error {
	data, err := encode(path, s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func LoadAnswers(path string) (AnswerBatch, error) {
	var b AnswerBatch
	if err := decodeFile(path, &b); err != nil {
		return AnswerBatch{}, err
	}
	return b, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isJSON(path) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		// an empty document leaves out untouched
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// encode renders v as JSON for .json paths and YAML otherwise.
func encode(path string, v any) ([]byte, error) {
	if isJSON(path) {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", path, err)
		}
		return append(data, '\n'), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
