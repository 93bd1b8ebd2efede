// Package schemas embeds the JSON Schemas for optimization backend responses.
package schemas

import _ "embed"

//go:embed selection_result.schema.json
var SelectionResultSchemaJSON string

//go:embed dataset_result.schema.json
var DatasetResultSchemaJSON string
