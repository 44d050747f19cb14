package geminiservice

import "context"

// MockGenerator implements Generator for testing. It records the last prompt
// it received and returns a fixed response or error.
type MockGenerator struct {
	FixedText   string
	GenerateErr error
	LastParts   []string
}

func (m *MockGenerator) Generate(_ context.Context, parts []string) (string, error) {
	m.LastParts = parts
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return m.FixedText, nil
}
