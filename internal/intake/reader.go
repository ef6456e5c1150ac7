package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"k8s.io/klog/v2"

	"leveler/internal"
	"leveler/internal/config"
)

type Kind string

const (
	KindText  Kind = "text"
	KindEmail Kind = "email"
	KindPDF   Kind = "pdf"
)

func KindFromPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", "":
		return KindText, nil
	case ".eml", ".msg":
		return KindEmail, nil
	case ".pdf":
		return KindPDF, nil
	default:
		return "", fmt.Errorf("unsupported proposal file %s: must be .txt, .eml or .pdf", filepath.Base(path))
	}
}

// Reader turns raw proposal payloads into Proposals within configured size and page limits.
type Reader struct {
	maxBytes int
	pdfPages int
	keepHTML bool
}

func NewReader(cfg config.Config) *Reader {
	return &Reader{maxBytes: cfg.IntakeMaxBytes, pdfPages: cfg.IntakePDFPages, keepHTML: cfg.IntakeKeepHTML}
}

func (r *Reader) ReadFile(ctx context.Context, path string) (Proposal, error) {
	kind, err := KindFromPath(path)
	if err != nil {
		return Proposal{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Proposal{}, err
	}
	defer f.Close()

	raw, err := r.readLimited(f)
	if err != nil {
		return Proposal{}, &internal.ParseError{Source: filepath.Base(path), Cause: err}
	}
	return r.Read(ctx, kind, filepath.Base(path), raw)
}

func (r *Reader) readLimited(src io.Reader) ([]byte, error) {
	if r.maxBytes <= 0 {
		return io.ReadAll(src)
	}
	raw, err := io.ReadAll(io.LimitReader(src, int64(r.maxBytes)+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > r.maxBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes", r.maxBytes)
	}
	return raw, nil
}

func (r *Reader) Read(ctx context.Context, kind Kind, source string, raw []byte) (Proposal, error) {
	logger := klog.FromContext(ctx).WithValues("source", source, "kind", kind)

	var (
		p   Proposal
		err error
	)
	switch kind {
	case KindText:
		p = ParseText(source, string(raw))
		p.Detection = Detect(p, string(raw))
	case KindEmail:
		p, err = r.parseEmail(ctx, source, raw)
	case KindPDF:
		var text string
		text, err = r.pdfText(raw)
		p = ParseText(source, text)
		p.Detection = Detect(p, text)
	default:
		return Proposal{}, fmt.Errorf("unsupported proposal kind: %s", kind)
	}
	if err != nil {
		return Proposal{}, &internal.ParseError{Source: source, Cause: err}
	}

	logger.V(1).Info("proposal read",
		"company", p.Company,
		"hasTotal", p.HasTotal,
		"inclusions", len(p.Inclusions),
		"exclusions", len(p.Exclusions),
		"score", p.Detection.Score,
	)
	return p, nil
}

// parseEmail reads the text body, falling back to PDF attachments for anything the body does not state.
func (r *Reader) parseEmail(ctx context.Context, source string, raw []byte) (Proposal, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return Proposal{}, err
	}

	body := env.Text
	if env.HTML != "" && (body == "" || r.keepHTML) {
		if htmlText, err := htmlToText(env.HTML); err == nil {
			body = strings.TrimSpace(body + "\n" + htmlText)
		}
	}

	p := ParseText(source, body)
	p.Subject = env.GetHeader("Subject")

	for _, att := range env.Attachments {
		name := strings.TrimSpace(att.FileName)
		if name == "" {
			name = "attachment"
		}
		p.Attachments = append(p.Attachments, name)
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			continue
		}
		text, err := r.pdfText(att.Content)
		if err != nil {
			klog.FromContext(ctx).Info("skipping unreadable attachment", "source", source, "attachment", name, "err", err)
			continue
		}
		p.merge(ParseText(name, text))
	}

	if p.Company == "" {
		p.Company = senderName(env)
	}
	p.Detection = Detect(p, body)
	return p, nil
}

func senderName(env *enmime.Envelope) string {
	from, err := env.AddressList("From")
	if err != nil || len(from) == 0 {
		return ""
	}
	return strings.TrimSpace(from[0].Name)
}

// htmlToText keeps one line per block element so section headings survive.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script,style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p,div,li,tr,h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return doc.Text(), nil
}

func (r *Reader) pdfText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	pages := reader.NumPage()
	if r.pdfPages > 0 && pages > r.pdfPages {
		pages = r.pdfPages
	}
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
