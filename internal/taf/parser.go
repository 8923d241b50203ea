package taf

import (
	"strings"

	"wx_parser/internal/registry"
	"wx_parser/internal/report"
)

// DefaultDelimiter splits forecast periods in feed text. Single-line
// reports are still segmented via the embedded period markers.
const DefaultDelimiter = "\n"

// Parser adapts the TAF decoder to the registry interface.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string  { return "taf" }
func (p *Parser) Priority() int { return 10 }

// QuickCheck accepts reports that announce themselves as TAFs.
func (p *Parser) QuickCheck(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "TAF")
}

func (p *Parser) Parse(text string) (report.Report, error) {
	return Parse(text, DefaultDelimiter)
}
