// Package twiml renders replies in the messaging provider's XML response format.
package twiml

import (
	"encoding/xml"

	"github.com/myrjola/fraudintake/internal/errors"
)

const ContentType = "application/xml"

type response struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

// Message renders a response replying with a single text message.
func Message(text string) ([]byte, error) {
	body, err := xml.Marshal(response{Messages: []string{text}}) //nolint:exhaustruct // XMLName is set by encoding/xml
	if err != nil {
		return nil, errors.Wrap(err, "marshal twiml")
	}
	return append([]byte(xml.Header), body...), nil
}
