package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// DOCX extracts paragraph text from Word documents. A .docx file is a ZIP
// archive whose main body lives in word/document.xml; text runs are <w:t>
// elements and paragraphs are <w:p> elements.
type DOCX struct{}

// NewDOCX creates a DOCX extractor.
func NewDOCX() *DOCX {
	return &DOCX{}
}

func (d *DOCX) Extensions() []string {
	return []string{".docx"}
}

func (d *DOCX) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.New("not a valid docx archive")
	}

	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			body, err := f.Open()
			if err != nil {
				return "", err
			}
			defer body.Close()
			return extractDocumentText(body)
		}
	}

	return "", errors.New("docx archive has no word/document.xml")
}

func extractDocumentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
