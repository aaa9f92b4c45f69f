package policy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is a dependency-policy specification as it appears in a workflow
// definition: either a bare policy name, or a name with parameters.
type Spec struct {
	Name   string
	Params map[string]interface{}
}

// UnmarshalYAML accepts either a scalar policy name or a
// {name, params} mapping
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&s.Name)
	case yaml.MappingNode:
		var raw struct {
			Name   string                 `yaml:"name"`
			Params map[string]interface{} `yaml:"params"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		s.Name = raw.Name
		s.Params = raw.Params
		return nil
	default:
		return fmt.Errorf("dependency policy must be a name or a {name, params} mapping")
	}
}

// paramKind is the declared type of a policy parameter
type paramKind string

const (
	kindInt        paramKind = "int"
	kindBool       paramKind = "bool"
	kindStringList paramKind = "string list"
)

// paramDef declares one parameter of a policy schema
type paramDef struct {
	kind     paramKind
	required bool
	def      interface{}
}

// schemas declares the accepted parameters per policy name. Unknown policy
// names and unknown or mistyped parameters fail construction.
var schemas = map[string]map[string]paramDef{
	"strict": {},
	"flexible": {
		"requiredDeps": {kind: kindStringList, def: []string{}},
		"maxAgeDays":   {kind: kindInt, def: 0},
	},
	"hybrid": {
		"maxAgeDays":     {kind: kindInt, def: 0},
		"preferWorkflow": {kind: kindBool, def: true},
	},
}

// ValidateSpec checks a policy specification against its declared schema
// without constructing the policy. A nil spec is valid (the default policy
// applies).
func ValidateSpec(spec *Spec) error {
	if spec == nil {
		return nil
	}
	_, err := resolveParams(spec)
	return err
}

// New constructs a policy instance from a specification. A nil spec yields
// the default strict policy.
func New(spec *Spec) (Policy, error) {
	if spec == nil {
		return NewStrictWorkflow(), nil
	}

	params, err := resolveParams(spec)
	if err != nil {
		return nil, err
	}

	switch spec.Name {
	case "strict":
		return NewStrictWorkflow(), nil
	case "flexible":
		return NewFlexible(params["requiredDeps"].([]string), params["maxAgeDays"].(int)), nil
	case "hybrid":
		return NewHybrid(params["maxAgeDays"].(int), params["preferWorkflow"].(bool)), nil
	default:
		// Unreachable: resolveParams already rejects unknown names
		return nil, fmt.Errorf("unknown dependency policy %q", spec.Name)
	}
}

// resolveParams validates the spec's parameters against the policy schema
// and fills in defaults for omitted optional parameters.
func resolveParams(spec *Spec) (map[string]interface{}, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("dependency policy name is required")
	}

	schema, ok := schemas[spec.Name]
	if !ok {
		return nil, fmt.Errorf("unknown dependency policy %q", spec.Name)
	}

	resolved := make(map[string]interface{}, len(schema))

	for name, raw := range spec.Params {
		def, ok := schema[name]
		if !ok {
			return nil, fmt.Errorf("policy %s does not accept parameter %q", spec.Name, name)
		}
		value, err := coerceParam(raw, def.kind)
		if err != nil {
			return nil, fmt.Errorf("policy %s parameter %q: %w", spec.Name, name, err)
		}
		resolved[name] = value
	}

	for name, def := range schema {
		if _, present := resolved[name]; present {
			continue
		}
		if def.required {
			return nil, fmt.Errorf("policy %s requires parameter %q", spec.Name, name)
		}
		resolved[name] = def.def
	}

	return resolved, nil
}

// coerceParam converts a raw YAML value to the declared parameter kind
func coerceParam(raw interface{}, kind paramKind) (interface{}, error) {
	switch kind {
	case kindInt:
		switch v := raw.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		}
	case kindBool:
		if v, ok := raw.(bool); ok {
			return v, nil
		}
	case kindStringList:
		switch v := raw.(type) {
		case []string:
			return v, nil
		case []interface{}:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected %s, got element %T", kind, item)
				}
				out = append(out, s)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, raw)
}
