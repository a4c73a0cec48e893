package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/textnorm"
)

// ErrUnsupported is returned for documents without a known extractor.
var ErrUnsupported = errors.New("unsupported document type")

type extractor func(data []byte) (string, error)

var extractors = map[string]extractor{
	".txt":  plainText,
	".md":   plainText,
	".pdf":  pdfText,
	".docx": docxText,
	".html": htmlText,
	".htm":  htmlText,
}

// Supported lists the extensions Extract understands.
func Supported() []string {
	return []string{".txt", ".md", ".pdf", ".docx", ".html", ".htm"}
}

// Extract reads src and returns its cleaned plain text. Every failure is an
// input-unavailable error for this document only.
func Extract(ctx context.Context, src Source) (text string, err error) {
	op := "extract " + src.Name()
	defer func() {
		if r := recover(); r != nil {
			err = fault.Input(op, fmt.Errorf("panic: %v", r))
		}
	}()

	data, err := src.Read(ctx)
	if err != nil {
		return "", fault.Input(op, err)
	}

	ext := extension(src)
	extract, ok := extractors[ext]
	if !ok {
		return "", fault.Input(op, fmt.Errorf("%w %q", ErrUnsupported, ext))
	}

	raw, err := extract(data)
	if err != nil {
		return "", fault.Input(op, err)
	}

	return textnorm.Clean(raw), nil
}

// SaveText writes text to <dir>/<stem of name>.txt and returns the path.
func SaveText(dir, name, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	path := filepath.Join(dir, stem+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func plainText(data []byte) (string, error) {
	return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section, article").AppendHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

// docxText reads word/document.xml. Body paragraphs come first, then every
// table row with its non-empty cells joined by " | ".
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var body io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if body == nil {
		return "", errors.New("no word/document.xml in docx")
	}
	defer body.Close()

	var (
		paragraphs []string
		rows       []string
		row        []string
		cell       []string
		para       strings.Builder
		tableDepth int
		inText     bool
	)

	dec := xml.NewDecoder(body)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					row = row[:0]
				}
			case "tc":
				if tableDepth == 1 {
					cell = cell[:0]
				}
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "t":
				inText = false
			case "p":
				text := strings.TrimSpace(para.String())
				switch {
				case tableDepth == 0 && text != "":
					paragraphs = append(paragraphs, text)
				case tableDepth == 1:
					cell = append(cell, text)
				}
				para.Reset()
			case "tc":
				if tableDepth == 1 {
					if text := strings.TrimSpace(strings.Join(cell, "\n")); text != "" {
						row = append(row, text)
					}
				}
			case "tr":
				if tableDepth == 1 && len(row) > 0 {
					rows = append(rows, strings.Join(row, " | "))
				}
			}
		}
	}

	return strings.Join(append(paragraphs, rows...), "\n"), nil
}
