package tools

import (
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Catalog is the ordered set of tools available in a session. Names are
// unique and lookups match them exactly.
type Catalog struct {
	tools  []Tool
	byName map[string]Tool
}

// NewCatalog fails when two tools share a name or a name is empty.
func NewCatalog(tools ...Tool) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", name)
		}
		c.byName[name] = t
		c.tools = append(c.tools, t)
	}
	return c, nil
}

// Lookup finds a tool by its exact name. There is no fuzzy matching.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Resolve is Lookup for a name chosen by the model. An unknown name is a
// KindUnknownTool error whose Message lists the valid names.
func (c *Catalog) Resolve(name string) (Tool, error) {
	if t, ok := c.Lookup(name); ok {
		return t, nil
	}
	return nil, &ToolError{
		Kind:    KindUnknownTool,
		Field:   name,
		Message: fmt.Sprintf("%s não é uma ferramenta válida, tente uma de [%s].", name, strings.Join(c.Names(), ", ")),
	}
}

// Tools returns the tools in registration order.
func (c *Catalog) Tools() []Tool {
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name()
	}
	return names
}

func (c *Catalog) Specs() []mcptypes.Tool {
	specs := make([]mcptypes.Tool, len(c.tools))
	for i, t := range c.tools {
		specs[i] = t.Spec()
	}
	return specs
}

// Render lists the tools as "name: description" lines for the prompt.
func (c *Catalog) Render() string {
	lines := make([]string, len(c.tools))
	for i, t := range c.tools {
		lines[i] = t.Name() + ": " + t.Description()
	}
	return strings.Join(lines, "\n")
}

func (c *Catalog) Len() int {
	return len(c.tools)
}
