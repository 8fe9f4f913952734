// Package parser reads top-level RFC822 messages and hands their header
// strings and joined plain-text body to the extraction engine. Header values
// stay raw here: normalization is the engine's job.
package parser

import (
	"html"
	"io"
	"mime"
	"os"
	"regexp"
	"strings"

	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/encoding/charmap"
)

func init() {
	// Register additional charsets that are commonly used in emails
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

var (
	htmlPolicy = bluemonday.StrictPolicy()
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// Message holds the top-level header strings and body of one source message.
type Message struct {
	From    string
	To      string
	Cc      string
	Bcc     string
	Subject string
	Date    string
	Body    string
}

// ParseFile reads and parses one message file.
func ParseFile(path string) (*Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse reads an RFC822 message from raw text. It never fails outright: when
// the reader cannot make sense of the content at all, the whole text becomes
// a headerless body so the extraction engine still sees it.
func Parse(content string) *Message {
	mr, err := mail.CreateReader(strings.NewReader(content))
	if err != nil {
		return &Message{Body: content}
	}

	msg := &Message{
		From:    mr.Header.Get("From"),
		To:      mr.Header.Get("To"),
		Cc:      mr.Header.Get("Cc"),
		Bcc:     mr.Header.Get("Bcc"),
		Subject: decodeMIMEWord(mr.Header.Get("Subject")),
		Date:    mr.Header.Get("Date"),
	}

	var plain, htmlParts []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A broken part degrades to whatever we already collected.
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			if strings.HasPrefix(contentType, "text/plain") {
				plain = append(plain, string(body))
			} else if strings.HasPrefix(contentType, "text/html") {
				htmlParts = append(htmlParts, string(body))
			}
		case *mail.AttachmentHeader:
			// Attachment decoding is out of scope; drain and drop.
			io.Copy(io.Discard, part.Body)
		}
	}

	if len(plain) > 0 {
		msg.Body = strings.Join(plain, "\n")
	} else if len(htmlParts) > 0 {
		msg.Body = htmlToText(strings.Join(htmlParts, "\n"))
	}
	return msg
}

// htmlToText reduces an HTML-only body to plain text: strip every tag, then
// unescape entities and collapse the blank-line runs the stripping leaves.
func htmlToText(s string) string {
	text := htmlPolicy.Sanitize(s)
	text = html.UnescapeString(text)
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// decodeMIMEWord decodes MIME-encoded words (RFC 2047)
// Example: =?UTF-8?Q?Invitaci=C3=B3n?= -> Invitación
func decodeMIMEWord(s string) string {
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(s)
	if err != nil {
		// If decoding fails, return original string
		return s
	}
	return decoded
}
