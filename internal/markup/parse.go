// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"net/url"
	"regexp"
	"strings"
)

// BookingHost is the only origin reply links may point at.
const BookingHost = "sigepsi.garcessebastian.com"

// =============================================================================
// DOCUMENT STRUCTURE
// =============================================================================

// Span is a run of text within a line.
type Span struct {
	Text string
	Bold bool
	// URL is non-empty only for links whose origin passed the booking
	// allowlist.
	URL string
}

// BlockKind discriminates Block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockList
	BlockSectionTitle
)

// Block is one structural unit of a reply.
type Block struct {
	Kind  BlockKind
	Spans []Span   // BlockParagraph, BlockSectionTitle
	Items [][]Span // BlockList
}

// Appointment is the booking call-to-action extracted from a reply.
type Appointment struct {
	Label string
	URL   string
}

// Document is a parsed reply.
type Document struct {
	Blocks []Block
	// Appointment is set when the reply carried the booking suggestion
	// pattern with a valid link. The matched region is removed from Blocks.
	Appointment *Appointment
}

// =============================================================================
// PATTERNS
// =============================================================================

var (
	appointmentPattern = regexp.MustCompile(`(?s)💙\s*¿Necesitas más apoyo\?.*?\[([^\]]+)\]\(([^)\s]+)\)`)
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	bulletPattern      = regexp.MustCompile(`^[•\-]\s*(.+)$`)
	sectionPattern     = regexp.MustCompile(`^(\S.*?:)\s*$`)
)

// AllowedBookingURL reports whether a link target is the booking site.
// The URL is parsed, not prefix-matched, so "https://sigepsi.garcessebastian.com.evil.tld"
// does not pass.
func AllowedBookingURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host == BookingHost
}

// =============================================================================
// PARSING
// =============================================================================

// Parse turns a raw assistant reply into a Document.
func Parse(raw string) *Document {
	doc := &Document{}
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	// Extract the booking suggestion first so its lines do not leak into
	// the block structure.
	if m := appointmentPattern.FindStringSubmatchIndex(text); m != nil {
		label := strings.TrimSpace(text[m[2]:m[3]])
		target := strings.TrimSpace(text[m[4]:m[5]])
		if AllowedBookingURL(target) {
			doc.Appointment = &Appointment{Label: label, URL: target}
			text = text[:m[0]] + text[m[1]:]
		}
	}

	lines := strings.Split(text, "\n")

	var para []string
	var list [][]Span

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		joined := strings.Join(para, "\n")
		para = nil
		spans := parseSpans(joined)
		if len(spans) > 0 {
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockParagraph, Spans: spans})
		}
	}
	flushList := func() {
		if len(list) == 0 {
			return
		}
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockList, Items: list})
		list = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flushList()
			flushPara()
			continue
		}

		if m := bulletPattern.FindStringSubmatch(trimmed); m != nil {
			flushPara()
			list = append(list, parseSpans(m[1]))
			continue
		}

		flushList()

		if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
			flushPara()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockSectionTitle, Spans: parseSpans(m[1])})
			continue
		}

		para = append(para, trimmed)
	}
	flushList()
	flushPara()

	return doc
}

// parseSpans splits a line into bold, link, and plain runs.
func parseSpans(text string) []Span {
	var spans []Span

	// Links first: their labels may not contain ** so the two passes
	// cannot overlap.
	rest := text
	for {
		m := linkPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		spans = append(spans, boldSpans(rest[:m[0]])...)

		label := strings.TrimSpace(rest[m[2]:m[3]])
		target := strings.TrimSpace(rest[m[4]:m[5]])
		if AllowedBookingURL(target) {
			spans = append(spans, Span{Text: label, URL: target})
		} else {
			// Disallowed origin: keep the words, drop the target.
			spans = append(spans, Span{Text: label})
		}
		rest = rest[m[1]:]
	}
	spans = append(spans, boldSpans(rest)...)

	// Drop empty runs
	out := spans[:0]
	for _, s := range spans {
		if s.Text != "" {
			out = append(out, s)
		}
	}
	return out
}

// boldSpans splits **bold** runs out of plain text.
func boldSpans(text string) []Span {
	var spans []Span
	for {
		start := strings.Index(text, "**")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "**")
		if end < 0 {
			break
		}
		if before := text[:start]; before != "" {
			spans = append(spans, Span{Text: before})
		}
		spans = append(spans, Span{Text: text[start+2 : start+2+end], Bold: true})
		text = text[start+2+end+2:]
	}
	if text != "" {
		spans = append(spans, Span{Text: text})
	}
	return spans
}

// PlainText flattens a document back to unstyled text, for previews and
// clipboard copies.
func (d *Document) PlainText() string {
	var sb strings.Builder
	for i, block := range d.Blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch block.Kind {
		case BlockList:
			for j, item := range block.Items {
				if j > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString("• ")
				writeSpansPlain(&sb, item)
			}
		default:
			writeSpansPlain(&sb, block.Spans)
		}
	}
	return sb.String()
}

func writeSpansPlain(sb *strings.Builder, spans []Span) {
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
}
