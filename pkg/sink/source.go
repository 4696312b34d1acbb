package sink

import "context"

// Source describes where a summary came from. Sinks that keep a record of
// the summary (database, window title) read it from the context.
type Source struct {
	URL      string
	Title    string
	Provider string
	Model    string
}

type sourceKey struct{}

func WithSource(ctx context.Context, src Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

func SourceFrom(ctx context.Context) (Source, bool) {
	src, ok := ctx.Value(sourceKey{}).(Source)
	return src, ok
}
