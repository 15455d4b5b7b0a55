package api

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed chat_request.schema.json
var chatRequestSchema []byte

type schemaValidator struct {
	schema *gojsonschema.Schema
}

func newChatSchema() (*schemaValidator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(chatRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile chat schema: %w", err)
	}
	return &schemaValidator{schema: s}, nil
}

// check validates a raw JSON document. Malformed JSON is reported as an
// error too.
func (v *schemaValidator) check(doc []byte) error {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate chat payload: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("chat payload: %s", strings.Join(msgs, "; "))
}
