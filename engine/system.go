package engine

// System is one stage of the per-tick pipeline
// Lower priority runs first; Update must not block
type System interface {
	Name() string
	Priority() int
	Update(ctx *Context, dt float64)
}
