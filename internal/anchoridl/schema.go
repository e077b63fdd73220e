package anchoridl

import "github.com/invopop/jsonschema"

// JSONSchema describes the IDL layout Parse accepts.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true, // put File at the root
	}
	s := r.Reflect(new(File))
	s.Title = "Anchor IDL"
	s.Description = "Instruction layout document accepted by ixdecode."
	return s
}
