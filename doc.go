// Package xmlpipe assembles streaming XML event pipelines: pull
// streams over a closed event model, flattening of nested sub-streams,
// complex content normalization, tree decomposition, namespace fixup,
// and bridges between pull and push processing styles.
//
// All pipeline state hangs off a Session, which owns the name pool
// used to intern qualified names into compact codes. Sessions and the
// streams they produce are single-consumer; nothing in this package is
// safe for concurrent use.
package xmlpipe
