package testkit

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
)

// Template is a synthesized CloudFormation template with lookup helpers.
type Template struct {
	assertions assertions.Template
	raw        map[string]any
}

// Resource is one entry of a template's Resources section.
type Resource struct {
	LogicalID           string
	Type                string
	Properties          map[string]any
	DeletionPolicy      string
	UpdateReplacePolicy string
}

// FromStack synthesizes stack and captures its template.
//
// The template is re-decoded through encoding/json so nested values are always
// map[string]any and []any.
func FromStack(stack awscdk.Stack) (*Template, error) {
	tmpl := assertions.Template_FromStack(stack, nil)
	raw := map[string]any{}
	if out := tmpl.ToJSON(); out != nil {
		encoded, err := json.Marshal(*out)
		if err != nil {
			return nil, fmt.Errorf("testkit: encode template: %w", err)
		}
		if err := json.Unmarshal(encoded, &raw); err != nil {
			return nil, fmt.Errorf("testkit: decode template: %w", err)
		}
	}
	return &Template{assertions: tmpl, raw: raw}, nil
}

// FromJSON wraps an already-decoded template.
func FromJSON(raw map[string]any) *Template {
	return &Template{raw: raw}
}

// Assertions exposes the CDK assertions template; nil for FromJSON templates.
func (t *Template) Assertions() assertions.Template {
	return t.assertions
}

func (t *Template) JSON() map[string]any {
	return t.raw
}

// Bytes returns the canonical JSON encoding. encoding/json sorts map keys, so equal
// templates always encode identically.
func (t *Template) Bytes() ([]byte, error) {
	return json.Marshal(t.raw)
}

// Resources returns every resource of type typ ("" for all), ordered by logical id.
func (t *Template) Resources(typ string) []Resource {
	section, _ := t.raw["Resources"].(map[string]any)
	ids := make([]string, 0, len(section))
	for id := range section {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Resource
	for _, id := range ids {
		res := toResource(id, section[id])
		if typ == "" || res.Type == typ {
			out = append(out, res)
		}
	}
	return out
}

// Resource returns the resource with the given logical id.
func (t *Template) Resource(logicalID string) (Resource, bool) {
	section, _ := t.raw["Resources"].(map[string]any)
	body, ok := section[logicalID]
	if !ok {
		return Resource{}, false
	}
	return toResource(logicalID, body), true
}

// OnlyResource returns the single resource of type typ, or an error when there is
// not exactly one.
func (t *Template) OnlyResource(typ string) (Resource, error) {
	found := t.Resources(typ)
	if len(found) != 1 {
		return Resource{}, fmt.Errorf("testkit: expected exactly one %s, found %d", typ, len(found))
	}
	return found[0], nil
}

// Outputs returns the template's Outputs section keyed by output id.
func (t *Template) Outputs() map[string]any {
	out, _ := t.raw["Outputs"].(map[string]any)
	return out
}

func toResource(id string, body any) Resource {
	m, _ := body.(map[string]any)
	res := Resource{LogicalID: id}
	res.Type, _ = m["Type"].(string)
	res.Properties, _ = m["Properties"].(map[string]any)
	res.DeletionPolicy, _ = m["DeletionPolicy"].(string)
	res.UpdateReplacePolicy, _ = m["UpdateReplacePolicy"].(string)
	return res
}

// Ref is the intrinsic {"Ref": logicalID}.
func Ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

// GetAtt is the intrinsic {"Fn::GetAtt": [logicalID, attribute]}.
func GetAtt(logicalID, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{logicalID, attribute}}
}

// Lookup walks nested maps by key and returns the value at path.
func Lookup(value any, path ...string) (any, bool) {
	cur := value
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// References reports whether value contains a Ref or Fn::GetAtt to logicalID at any depth.
func References(value any, logicalID string) bool {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := v["Ref"].(string); ok && ref == logicalID {
			return true
		}
		if att, ok := v["Fn::GetAtt"].([]any); ok && len(att) > 0 {
			if id, ok := att[0].(string); ok && id == logicalID {
				return true
			}
		}
		for _, inner := range v {
			if References(inner, logicalID) {
				return true
			}
		}
	case []any:
		for _, inner := range v {
			if References(inner, logicalID) {
				return true
			}
		}
	}
	return false
}
