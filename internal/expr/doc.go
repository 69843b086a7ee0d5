// Package expr implements the template expression language used by document
// bindings: `${...}` spans embedded in strings, evaluated against a state
// snapshot.
//
// Grammar, lowest to highest precedence:
//   - ternary:        cond ? a : b
//   - logical:        ||, &&
//   - equality:       ==, !=
//   - comparison:     <, <=, >, >=
//   - additive:       +, -
//   - multiplicative: *, /, %
//   - unary:          -, !
//   - primary:        literal, (expr), path reference, name[expr],
//     member pseudo-properties .count / .first / .last
//
// Evaluation never aborts a resolution pass: undefined path lookups yield a
// neutral value (empty string in template context, nil for direct bindings)
// and arithmetic on non-numeric operands yields NaN. Malformed sources are
// reported once through the evaluator's logger and thereafter evaluate to
// the neutral value. Compiled expressions are cached by source string.
package expr
