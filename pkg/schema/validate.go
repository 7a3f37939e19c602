package schema

// Validate checks if data conforms to the schema.
// Returns an error with all validation failures found.
//
// Keys in data that the schema does not declare are ignored, so callers
// can add fields to their payloads before the template schema catches up.
func (s Schema) Validate(data map[string]any) error {
	if len(s.Fields) == 0 {
		// No declared fields = no validation
		return nil
	}

	var errs []error

	for _, field := range s.Fields {
		value, exists := data[field.Name]
		if !exists {
			if field.Required {
				errs = append(errs, &ValidationError{
					Key:    field.Name,
					Reason: "required",
					Value:  nil,
				})
			}
			continue
		}

		if err := field.Type.Matches(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    field.Name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}
