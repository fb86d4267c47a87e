// Package dsl provides the concrete shapes of goshape.
//
// Overview
//   - Builders are values: every method returns a modified copy, so a shape can be
//     shared by many parents and many concurrent parses.
//   - Constraints take optional goshape.IssueOptions to override the message or attach Meta.
//   - Custom logic attaches through the generic helpers Refine/RefineAsync/Transform/TransformAsync
//     (and the typed RefineOf/TransformOf), which work on every shape of this package.
//
// Entry points
//   - Primitives: String(), Number(), Bool(), BigInt(), Date(); Coerce() enables conversion.
//   - Literals: Const(v), Enum(values...).
//   - Special: Any(), Unknown(), Never().
//   - Wrappers: Optional(s, default...), Default, Nullable, Nullish, NonOptional, Pipe.
//   - Collections: Array(elem), Tuple(heads...).Rest(s), Set(elem), Map(key, value).
//   - Objects: Object(Field(...)...) with Strip/Passthrough/Strict/Rest and the structural
//     operations Extend/Pick/Omit/Partial/DeepPartial/Required/Readonly; Record(key, value).
//   - Combinators: Or(...), Discriminated(key, variants...), And(...), Lazy(provider).
//
// File layout (roles)
//   - base.go: step helpers and small internal interfaces shared by all shapes.
//   - primitives.go / literals.go / special.go: leaf shapes.
//   - wrappers.go: optional/nullable/default wrappers and pipes.
//   - array.go / set.go / map.go / record.go / object.go: containers.
//   - union.go / intersection.go / lazy.go: combinators and recursion.
//
// Quickstart
//
//	var tree *dsl.LazySchema
//	tree = dsl.Lazy(func() goshape.Shape {
//		return dsl.Object(
//			dsl.Field("name", dsl.String().NonEmpty()),
//			dsl.Field("children", dsl.Optional(dsl.Array(tree))),
//		)
//	})
//	out, err := goshape.Parse(ctx, tree, input)
package dsl
