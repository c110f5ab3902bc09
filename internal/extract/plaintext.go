package extract

import (
	"io"
)

// Plaintext handles formats whose bytes are already text.
type Plaintext struct{}

// NewPlaintext creates a plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

func (p *Plaintext) Extensions() []string {
	return []string{".txt", ".md", ".log", ".json", ".yaml", ".yml"}
}

func (p *Plaintext) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
