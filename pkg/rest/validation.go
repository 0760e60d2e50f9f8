package rest

// ValidationErrors collects the messages a server returns when it rejects
// an entity. Field order follows the response; messages with no field
// attach to "base".
type ValidationErrors struct {
	fields   []string
	messages map[string][]string
}

const baseField = "base"

// NewValidationErrors returns an empty container.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{messages: make(map[string][]string)}
}

// Add records a message against a field.
func (v *ValidationErrors) Add(field, message string) {
	if _, ok := v.messages[field]; !ok {
		v.fields = append(v.fields, field)
	}

	v.messages[field] = append(v.messages[field], message)
}

// AddToBase records a message against the entity as a whole.
func (v *ValidationErrors) AddToBase(message string) {
	v.Add(baseField, message)
}

// On returns the messages recorded for a field.
func (v *ValidationErrors) On(field string) []string {
	return v.messages[field]
}

// Fields returns the fields carrying messages, in response order.
func (v *ValidationErrors) Fields() []string {
	return v.fields
}

// Size returns the total number of messages.
func (v *ValidationErrors) Size() int {
	total := 0
	for _, msgs := range v.messages {
		total += len(msgs)
	}

	return total
}

// FullMessages joins each field with its messages ("name can't be blank");
// base messages stand alone.
func (v *ValidationErrors) FullMessages() []string {
	var out []string

	for _, field := range v.fields {
		for _, msg := range v.messages[field] {
			if field == baseField {
				out = append(out, msg)
			} else {
				out = append(out, field+" "+msg)
			}
		}
	}

	return out
}

// parseValidationErrors reads the conventional {"errors": ...} body of a
// rejected entity. The mapping form carries per-field message lists; the
// older list form carries whole messages, which attach to base. Anything
// unreadable yields an empty container.
func parseValidationErrors(body []byte) *ValidationErrors {
	v := NewValidationErrors()

	doc, err := DecodeDocument(body)
	if err != nil {
		return v
	}

	m, ok := doc.(*Mapping)
	if !ok {
		return v
	}

	errsDoc, ok := m.Get("errors")
	if !ok {
		return v
	}

	switch errs := errsDoc.(type) {
	case *Mapping:
		for _, field := range errs.Keys() {
			val, _ := errs.Get(field)

			switch fieldErrs := val.(type) {
			case Sequence:
				for _, msg := range fieldErrs {
					if s, ok := scalarString(msg); ok {
						v.Add(field, s)
					}
				}
			case Scalar:
				if s, ok := scalarString(fieldErrs); ok {
					v.Add(field, s)
				}
			}
		}
	case Sequence:
		for _, msg := range errs {
			if s, ok := scalarString(msg); ok {
				v.AddToBase(s)
			}
		}
	}

	return v
}

func scalarString(doc Document) (string, bool) {
	scalar, ok := doc.(Scalar)
	if !ok {
		return "", false
	}

	s, ok := scalar.Value.(string)

	return s, ok
}
