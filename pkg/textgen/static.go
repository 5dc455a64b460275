package textgen

import (
	"context"
	"iter"
	"os"
	"strings"
)

// StaticSource replays a fixed response, such as one recorded from a model
type StaticSource struct {
	text string
}

func NewStaticSource(text string) *StaticSource {
	return &StaticSource{text: text}
}

// NewStaticSourceFromFile reads a recorded response from path
func NewStaticSourceFromFile(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Source: "static", Op: "read", Err: err}
	}
	return NewStaticSource(string(data)), nil
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Generate(ctx context.Context, _ Request) (iter.Seq[string], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.text) == "" {
		return nil, &SourceError{Source: s.Name(), Op: "generate", Err: ErrEmptyResponse}
	}
	return SplitBlocks(s.text), nil
}
