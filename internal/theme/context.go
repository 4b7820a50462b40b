// ABOUTME: The owned holder of the active theme name and resource path.
// ABOUTME: Injected into the theme service and read by anything rendering themed UI.

package theme

// Context holds the active theme. It has no locking; callers confine access
// to one goroutine.
type Context struct {
	name string
	path string
}

// NewContext returns an empty context; Service.Init fills it.
func NewContext() *Context {
	return &Context{}
}

// Name is the active theme name.
func (c *Context) Name() string {
	return c.name
}

// Path is the resource base path of the active theme.
func (c *Context) Path() string {
	return c.path
}

func (c *Context) set(name, path string) {
	c.name = name
	c.path = path
}
