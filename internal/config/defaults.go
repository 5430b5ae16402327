// Package config supplies pieces of the layered PropertyStore chain
// described in spec §3: the embedded defaults layer, the abbreviations file
// and the CLI's scratch-property overlay, plus session persistence and
// include/exclude glob matching. It does not load global, directory, local
// or platform property files.
package config

import (
	_ "embed"
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/scite-core/internal/debug"
	scerrors "github.com/standardbeagle/scite-core/internal/errors"
	"github.com/standardbeagle/scite-core/internal/props"
)

//go:embed defaults.kdl
var embeddedDefaults []byte

// LoadDefaults parses the embedded defaults.kdl document and installs every
// leaf value into ps, forming the bottom-most layer of the property chain
// (spec §3 "embedded defaults"), grounded on internal/config/kdl_config.go's
// use of kdl-go for structured configuration, generalised here to a flat
// dotted-key property tree instead of a fixed Go struct.
func LoadDefaults(ps *props.Store) error {
	return loadKDLInto(ps, embeddedDefaults, "")
}

// loadKDLInto parses data as a KDL document and walks it depth-first,
// joining each node's name to its ancestors' names with '.' to build
// PropertyStore keys (e.g. a "maximum" node nested in a "buffers" node
// becomes buffers.maximum). A childless node with an argument is a leaf;
// prefix, if non-empty, is prepended to every key (LoadDefaults passes "").
func loadKDLInto(ps *props.Store, data []byte, prefix string) error {
	doc, err := kdl.Parse(strings.NewReader(string(data)))
	if err != nil {
		return scerrors.NewConfigError("defaults.kdl", "", err)
	}
	for _, n := range doc.Nodes {
		walkKDLNode(ps, n, prefix)
	}
	return nil
}

func walkKDLNode(ps *props.Store, n *document.Node, prefix string) {
	name := kdlNodeName(n)
	if name == "" {
		return
	}
	key := name
	if prefix != "" {
		key = prefix + "." + name
	}
	if len(n.Children) == 0 {
		if v, ok := kdlFirstArgString(n); ok {
			ps.Set(key, v)
			debug.LogProps("default %s=%s", key, v)
			return
		}
	}
	for _, child := range n.Children {
		walkKDLNode(ps, child, key)
	}
}

func kdlNodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func kdlFirstArgString(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	switch v := n.Arguments[0].Value.(type) {
	case string:
		return v, true
	case int64:
		return fmt.Sprintf("%d", v), true
	case float64:
		return fmt.Sprintf("%g", v), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	default:
		return "", false
	}
}
