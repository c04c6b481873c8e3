// Package bigexpr evaluates arithmetic over arbitrary-precision values while
// allocating as few intermediate values as it can.
//
// Expressions are trees built from values, variables, and operations, either
// with builder functions like Add and Mul or by parsing text like "a + b c".
// Each operation is resolved at construction against a Registry of primitive
// rules, so type errors surface before anything is evaluated. Values may be
// integers (*big.Int), rationals (*big.Rat), floats (*big.Float), integer
// polynomials (*Poly), or rational matrices (*Mat).
//
// Evaluating an expression runs a Plan: a straight-line program of primitive
// calls over a fixed set of typed slots. Plans depend only on the shape of an
// expression, meaning its operations and leaf types, so they are computed
// once per shape and cached in the registry. The planner orders operands to
// minimize the number of slots live at once, reuses slots whose values are
// dead, and rewrites a ± b*c into a single accumulate-multiply call when the
// registry has one. EvalInto writes the result directly into a destination
// value, even one that also appears as an operand, whenever that is safe.
//
// The syntax of parsed expressions is intended to be similar to math you'd
// write in your notes, with maybe a few more spaces. "2 x y" is a
// multiplication of three terms. So is "{2}[x](y)" (although not "2 xy").
// "-2^2^n" is the same as "-(2^(2^n))", where "a^b" is exponentiation.
package bigexpr
