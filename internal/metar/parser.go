package metar

import (
	"strings"

	"wx_parser/internal/registry"
	"wx_parser/internal/report"
)

// Parser adapts the METAR decoder to the registry interface.
type Parser struct{}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string  { return "metar" }
func (p *Parser) Priority() int { return 50 }

// QuickCheck accepts anything that is not explicitly a TAF. METAR is the
// fallback report type, so it runs after the TAF parser.
func (p *Parser) QuickCheck(text string) bool {
	return !strings.HasPrefix(strings.TrimSpace(text), "TAF")
}

func (p *Parser) Parse(text string) (report.Report, error) {
	return Parse(text)
}
