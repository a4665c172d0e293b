package frontmatter

import (
	"bufio"
	"bytes"
	"errors"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"
)

// Fence delimits the metadata block.
const Fence = "+++"

// TextCodeParseFailed marks a fenced block that is not valid TOML.
const TextCodeParseFailed = "FRONTMATTER_PARSE_FAILED"

var tomlFormat = frontmatter.NewFormat(Fence, Fence, toml.Unmarshal)

// Document is a parsed post document.
type Document struct {
	Frontmatter Frontmatter
	// Body holds every byte after the closing fence line.
	Body []byte
}

// Parse decodes data. ok is false when data does not open with a fence line
// or never closes the block; that outcome is not an error. A fenced block that
// fails to decode returns a bad input error.
func Parse(data []byte) (doc *Document, ok bool, err error) {
	if !opensWithFence(data) {
		return nil, false, nil
	}

	meta := map[string]any{}
	body, err := frontmatter.MustParse(bytes.NewReader(data), &meta, tomlFormat)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, goerrors.Wrap(err, goerrors.CategoryBadInput, "frontmatter: decode metadata block").
			WithTextCode(TextCodeParseFailed)
	}

	return &Document{
		Frontmatter: Frontmatter(meta),
		Body:        append([]byte(nil), body...),
	}, true, nil
}

// Encode renders doc as a fenced TOML block followed by the body verbatim.
// Keys absent from doc.Frontmatter are not written.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Fence)
	buf.WriteByte('\n')

	meta := map[string]any(doc.Frontmatter)
	if meta == nil {
		meta = map[string]any{}
	}
	if err := toml.NewEncoder(&buf).Encode(meta); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "frontmatter: encode metadata block")
	}
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] != '\n' {
		buf.WriteByte('\n')
	}

	buf.WriteString(Fence)
	buf.WriteByte('\n')
	buf.Write(doc.Body)
	return buf.Bytes(), nil
}

func opensWithFence(data []byte) bool {
	line, _, err := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if err != nil {
		return false
	}
	return string(bytes.TrimSpace(line)) == Fence
}
