package solver

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/validation"
)

// DecodeResponse validates a response body against the schema for mode and
// decodes it. Malformed bodies are ErrShapeMismatch.
func DecodeResponse(mode models.Mode, data []byte) (*Response, error) {
	doc, err := validation.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrShapeMismatch, err)
	}

	switch mode {
	case models.ModeDataset:
		if errs := validation.ValidateDatasetResult(doc); len(errs) > 0 {
			return nil, schemaError(errs)
		}
		var out models.DatasetResult
		if err := decode(doc, &out); err != nil {
			return nil, err
		}
		return &Response{Mode: mode, Dataset: &out}, nil
	default:
		if errs := validation.ValidateSelectionResult(doc); len(errs) > 0 {
			return nil, schemaError(errs)
		}
		var out models.SelectionResult
		if err := decode(doc, &out); err != nil {
			return nil, err
		}
		return &Response{Mode: models.ModeGeneric, Selection: &out}, nil
	}
}

func decode(doc any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return fmt.Errorf("%w: %v", models.ErrShapeMismatch, err)
	}
	return nil
}

func schemaError(errs []string) error {
	return fmt.Errorf("%w: malformed response: %s", models.ErrShapeMismatch, strings.Join(errs, "; "))
}
