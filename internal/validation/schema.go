// Package validation checks optimization backend responses against the
// embedded JSON Schemas before they are decoded.
package validation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spboyer/siteselect/schemas"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// selectionSchema is the compiled schema for generic-mode responses.
var selectionSchema *jsonschema.Schema

// datasetSchema is the compiled schema for dataset-mode responses.
var datasetSchema *jsonschema.Schema

func init() {
	selectionSchema = mustCompileSchema(schemas.SelectionResultSchemaJSON, "selection_result.schema.json")
	datasetSchema = mustCompileSchema(schemas.DatasetResultSchemaJSON, "dataset_result.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// DecodeJSON parses a response body into a generic document suitable for
// Validate*. Numbers are kept as json.Number.
func DecodeJSON(data []byte) (any, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return doc, nil
}

// ValidateSelectionResult validates a generic-mode response document.
func ValidateSelectionResult(doc any) []string {
	return validateAgainstSchema(selectionSchema, doc)
}

// ValidateDatasetResult validates a dataset-mode response document.
func ValidateDatasetResult(doc any) []string {
	return validateAgainstSchema(datasetSchema, doc)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
