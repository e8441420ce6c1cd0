// Package irfile reads and writes module snapshots: operations whose operand
// and result types are already resolved, serialised as YAML for humans and
// msgpack for tools.
//
// Types are encoded structurally, never as dialect text:
//
//	i32            scalar (iN, fN, int, float, bool, char)
//	{ptr: i32}     pointer to i32
//	{ptr: {ptr: f64}}
//	{opaque: node} named type owned elsewhere
package irfile
