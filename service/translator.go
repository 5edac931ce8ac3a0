package service

import (
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/sqlstmt/database"
	"github.com/Konsultn-Engineering/sqlstmt/format"
	"github.com/Konsultn-Engineering/sqlstmt/message"
)

// ResultSetTranslator writes the rows of a query back onto a message.
type ResultSetTranslator interface {
	Translate(rows database.Rows, msg *message.Message) error
}

// NoOpTranslator leaves the message untouched.
type NoOpTranslator struct{}

func (NoOpTranslator) Translate(database.Rows, *message.Message) error { return nil }

// FirstRowMetadataTranslator copies the columns of the first row into message
// metadata, keyed by Prefix plus column name. NULL columns remove the key.
type FirstRowMetadataTranslator struct {
	Prefix string
}

func (t FirstRowMetadataTranslator) Translate(rows database.Rows, msg *message.Message) error {
	if !rows.Next() {
		return nil
	}
	row, err := database.ScanMap(rows)
	if err != nil {
		return err
	}
	for col, v := range row {
		key := t.Prefix + col
		if v == nil {
			msg.RemoveMetadata(key)
			continue
		}
		msg.SetMetadata(key, metadataValue(v))
	}
	return nil
}

func metadataValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

const defaultElement = "row"

// DocumentTranslator replaces the payload with a document holding every row
// under the plural of Element:
//
//	people:
//	  - id: 1
//	    name: Rachel
type DocumentTranslator struct {
	Element string
	Format  format.Format
	Keys    KeyStyle
}

func (t DocumentTranslator) CollectionKey() string {
	if t.Element == "" {
		return pluralize(defaultElement)
	}
	return pluralize(t.Element)
}

func (t DocumentTranslator) Translate(rows database.Rows, msg *message.Message) error {
	docs := make([]map[string]any, 0)
	for rows.Next() {
		row, err := database.ScanMap(rows)
		if err != nil {
			return err
		}
		doc := make(map[string]any, len(row))
		for col, v := range row {
			doc[t.Keys.Key(col)] = v
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	f := t.Format
	if f == "" || f == format.Table {
		f = format.YAML
	}
	out, err := f.Marshal(map[string]any{t.CollectionKey(): docs})
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	msg.SetPayload(out)
	return nil
}
