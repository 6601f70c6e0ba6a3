package intermodal

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// valueFromYAML parses one YAML document into a Value, preserving mapping key
// order as reported by the parser.
func valueFromYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, singleIssueCause("/", CodeSyntaxError, "invalid YAML", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return Value{}, singleIssue("/", CodeMalformedBlock, "empty document", nil)
	}
	doc := root.Content[0]
	v, iss := valueFromNode(doc, "")
	if iss != nil {
		return Value{}, iss
	}
	return v, nil
}

func valueFromNode(n *yaml.Node, path string) (Value, Issues) {
	switch n.Kind {
	case yaml.AliasNode:
		// Anchors always precede their aliases, so following them terminates.
		return valueFromNode(n.Alias, path)
	case yaml.ScalarNode:
		return scalarFromNode(n), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		var iss Issues
		for i, c := range n.Content {
			v, more := valueFromNode(c, path+"/"+strconv.Itoa(i))
			iss = append(iss, more...)
			items = append(items, v)
		}
		if iss != nil {
			return Value{}, iss
		}
		return Sequence(items...), nil
	case yaml.MappingNode:
		entries := make([]MapEntry, 0, len(n.Content)/2)
		seen := make(map[string]struct{}, len(n.Content)/2)
		var iss Issues
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				iss = AppendIssues(iss, issueAt(path, CodeTypeMismatch, "mapping key must be a string", nil))
				continue
			}
			key := kn.Value
			kp := path + "/" + escapePointer(key)
			if _, dup := seen[key]; dup {
				iss = AppendIssues(iss, issueAt(kp, CodeDuplicateKey, "duplicate mapping key", map[string]any{"key": key}))
				continue
			}
			seen[key] = struct{}{}
			v, more := valueFromNode(vn, kp)
			iss = append(iss, more...)
			entries = append(entries, Entry(key, v))
		}
		if iss != nil {
			return Value{}, iss
		}
		return Mapping(entries...), nil
	}
	return Value{}, singleIssue(path, CodeSyntaxError, "unsupported YAML node", nil)
}

func scalarFromNode(n *yaml.Node) Value {
	switch n.Tag {
	case "!!null":
		return Null()
	case "!!bool":
		return Bool(strings.EqualFold(n.Value, "true"))
	case "!!int", "!!float":
		return Number(n.Value)
	default:
		// !!str, !!timestamp and any custom tag carry their raw text.
		return String(n.Value)
	}
}

// nodeFromValue renders a Value as a yaml.Node tree. Strings are tagged !!str
// so the encoder quotes anything that would otherwise be re-resolved as a
// number, bool or timestamp on the way back in.
func nodeFromValue(v Value) *yaml.Node {
	switch v.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindBool:
		b, _ := v.Bool()
		s := "false"
		if b {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}
	case KindNumber:
		text, _ := v.NumberText()
		tag := "!!float"
		if _, err := strconv.ParseInt(text, 10, 64); err == nil {
			tag = "!!int"
		} else if _, err := strconv.ParseUint(text, 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
	case KindString:
		text, _ := v.Text()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: text}
	case KindSequence:
		items, _ := v.Items()
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range items {
			out.Content = append(out.Content, nodeFromValue(it))
		}
		return out
	case KindMapping:
		entries, _ := v.Entries()
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range entries {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				nodeFromValue(e.Value))
		}
		return out
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// plainScalar builds an untagged scalar that encodes without quoting; used for
// manifest fields whose wire form is fixed (ctime, version).
func plainScalar(text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: text}
}

// escapePointer applies JSON Pointer token escaping (~0 for ~, ~1 for /).
func escapePointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func singleIssueCause(path, code, msg string, cause error) Issues {
	it := issueAt(path, code, msg, nil)
	it.Cause = cause
	return AppendIssues(nil, it)
}
