package kosha

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

var errNoResults = fmt.Errorf("no items in reply")

func errBadStatus(code int) error {
	return fmt.Errorf("unexpected HTTP status %d", code)
}

// decodeItems walks the XML reply and collects every item element, wherever
// it sits in the tree, as a child-element→text mapping. The registry moves
// the envelope structure around between endpoints, so nothing beyond the
// item elements themselves is assumed.
func decodeItems(r io.Reader) ([]map[string]string, error) {
	dec := xml.NewDecoder(r)
	var items []map[string]string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML body: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}
		item, err := decodeItem(dec, start)
		if err != nil {
			return nil, fmt.Errorf("malformed item element: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeItem reads one item element's direct children into a map.
func decodeItem(dec *xml.Decoder, start xml.StartElement) (map[string]string, error) {
	item := map[string]string{}
	var field string
	var text strings.Builder
	depth := 0

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				field = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				if t.Name.Local != start.Name.Local {
					return nil, fmt.Errorf("unbalanced element %s", t.Name.Local)
				}
				return item, nil
			}
			if depth == 1 && field != "" {
				item[field] = strings.TrimSpace(text.String())
				field = ""
			}
			depth--
		}
	}
}
