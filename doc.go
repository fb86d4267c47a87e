// Package goshape validates and transforms untyped values against shape
// trees.
//
// It provides:
//
// - The Shape contract every validator implements (TryApply/TryApplyAsync)
// - A stable error model via Issues (code, path, input, param, message, meta)
// - Entry points Parse/ParseAsync/Try/TryAsync/Validate/Is/Go/ParseFrom
// - Sync/async duality: a shape is asynchronous when any shape reachable
// from it has an asynchronous step, and sync entry points refuse it
//
// Design policy:
// - Keep the public vocabulary in the root package; concrete shapes live in
// dsl/, coercion rules in coerce/, decoders in source/, the HTTP boundary in
// middleware/.
// - Bad input never panics: it is reported as issues. Only API misuse does.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := dsl.Object(
//	    dsl.Field("name", dsl.String().Min(1)),
//	    dsl.Field("age", dsl.Optional(dsl.Number().Int())),
//	)
//	v, err := goshape.Parse(ctx, user, input)
//	v, err = goshape.ParseFrom(ctx, user, source.JSON(data))
package goshape
