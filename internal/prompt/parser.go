package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// ResponseParser splits a delimited reasoning block out of raw model output.
type ResponseParser struct {
	tag string
	re  *regexp.Regexp
}

// NewResponseParser compiles a parser for <tag>...</tag> blocks.
func NewResponseParser(tag string) (*ResponseParser, error) {
	if !reasoningTagPattern.MatchString(tag) {
		return nil, fmt.Errorf("%w: reasoning tag %q must be an XML-style name", ErrConfiguration, tag)
	}
	quoted := regexp.QuoteMeta(tag)
	re, err := regexp.Compile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)
	if err != nil {
		return nil, fmt.Errorf("%w: reasoning tag %q: %v", ErrConfiguration, tag, err)
	}
	return &ResponseParser{tag: tag, re: re}, nil
}

func (p *ResponseParser) Tag() string {
	return p.tag
}

// Parse returns the trimmed content of the first reasoning block and the raw
// text with that block removed and trimmed. Without a block, reasoning is nil
// and the response is raw unchanged.
func (p *ResponseParser) Parse(raw string) (reasoning *string, response string) {
	loc := p.re.FindStringSubmatchIndex(raw)
	if loc == nil {
		return nil, raw
	}
	r := strings.TrimSpace(raw[loc[2]:loc[3]])
	return &r, strings.TrimSpace(raw[:loc[0]] + raw[loc[1]:])
}
