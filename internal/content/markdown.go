package content

import (
	"bytes"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

func renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
