// Package errors provides centralized error code definitions for Gelix.
// Every pass of the compiler reports through these codes so tooling can
// group, filter, and explain failures without parsing message strings.
package errors

// Error code constants organized by compiler phase, mirroring the
// pipeline order in SYSTEM OVERVIEW: lex -> parse -> declare -> fill ->
// lower -> instantiate.
const (
	// ============================================================
	// Lexer errors (LEX###)
	// ============================================================

	// LEX001 indicates an illegal character in the source
	LEX001 = "LEX001"
	// LEX002 indicates an unterminated string or char literal
	LEX002 = "LEX002"
	// LEX003 indicates a malformed numeric literal
	LEX003 = "LEX003"

	// ============================================================
	// Parser errors (PAR###)
	// ============================================================

	// PAR001 indicates an unexpected token
	PAR001 = "PAR001"
	// PAR002 indicates a missing closing delimiter
	PAR002 = "PAR002"
	// PAR003 indicates invalid function declaration syntax
	PAR003 = "PAR003"
	// PAR004 indicates invalid class/interface/enum declaration syntax
	PAR004 = "PAR004"
	// PAR005 indicates invalid impl-block syntax
	PAR005 = "PAR005"
	// PAR006 indicates invalid type-parameter syntax
	PAR006 = "PAR006"
	// PAR007 indicates a missing statement separator
	PAR007 = "PAR007"

	// ============================================================
	// Declaration-phase errors (DCL###) -- pass (a)
	// ============================================================

	// DCL001 indicates a duplicate top-level declaration
	DCL001 = "DCL001"
	// DCL002 indicates a duplicate module path
	DCL002 = "DCL002"

	// ============================================================
	// Resolution-phase errors (RSV###) -- pass (b)
	// ============================================================

	// RSV001 indicates an unresolved type name
	RSV001 = "RSV001"
	// RSV002 indicates an unsatisfied generic bound
	RSV002 = "RSV002"
	// RSV003 indicates an interface method missing from an impl block
	RSV003 = "RSV003"
	// RSV004 indicates an impl method signature incompatible with the interface
	RSV004 = "RSV004"
	// RSV005 indicates an unknown field initializer type
	RSV005 = "RSV005"

	// ============================================================
	// Visibility errors (VIS###)
	// ============================================================

	// VIS001 indicates access to a private declaration from outside its module
	VIS001 = "VIS001"
	// VIS002 indicates access to a module-visibility declaration from another module
	VIS002 = "VIS002"

	// ============================================================
	// Type errors (TYP###) -- pass (c)
	// ============================================================

	// TYP001 indicates mismatched binary operand types
	TYP001 = "TYP001"
	// TYP002 indicates no operator overload found for a type pair
	TYP002 = "TYP002"
	// TYP003 indicates a non-bool condition
	TYP003 = "TYP003"
	// TYP004 indicates a wrong argument type at a call site
	TYP004 = "TYP004"
	// TYP005 indicates an `is` check against a non-type operand
	TYP005 = "TYP005"
	// TYP006 indicates a return expression type mismatch
	TYP006 = "TYP006"
	// TYP007 indicates an unresolved variable or type name
	TYP007 = "TYP007"
	// TYP008 indicates members cannot be called directly
	TYP008 = "TYP008"
	// TYP009 indicates a when/if branch type that does not unify
	TYP009 = "TYP009"

	// ============================================================
	// Initialization errors (INI###)
	// ============================================================

	// INI001 indicates a field left uninitialized at constructor exit
	INI001 = "INI001"
	// INI002 indicates a method call on `this` before full initialization
	INI002 = "INI002"
	// INI003 indicates assignment to an immutable binding or field
	INI003 = "INI003"

	// ============================================================
	// Shape errors (SHP###)
	// ============================================================

	// SHP001 indicates wrong call arity
	SHP001 = "SHP001"
	// SHP002 indicates variadic misuse
	SHP002 = "SHP002"
	// SHP003 indicates constructor overload resolution failure
	SHP003 = "SHP003"
	// SHP004 indicates `break` used outside a loop
	SHP004 = "SHP004"

	// ============================================================
	// Generic-instantiation errors (GEN###) -- pass (d)
	// ============================================================

	// GEN001 indicates the wrong number of type arguments
	GEN001 = "GEN001"
	// GEN002 indicates an unsatisfied generic bound at instantiation
	GEN002 = "GEN002"
	// GEN003 indicates an instance that could not be resolved to a concrete type
	GEN003 = "GEN003"

	// ============================================================
	// Module-loading errors (LDR###)
	// ============================================================

	// LDR001 indicates a module file could not be found on any search path
	LDR001 = "LDR001"
	// LDR002 indicates a circular dependency among module imports
	LDR002 = "LDR002"
	// LDR003 indicates a module's declared path doesn't match its file location
	LDR003 = "LDR003"
	// LDR004 indicates an import references a symbol the target module doesn't export
	LDR004 = "LDR004"
)

// Info carries descriptive metadata about one error code.
type Info struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps error codes to their descriptive information.
var Registry = map[string]Info{
	LEX001: {LEX001, "lexer", "syntax", "Illegal character"},
	LEX002: {LEX002, "lexer", "syntax", "Unterminated literal"},
	LEX003: {LEX003, "lexer", "syntax", "Malformed numeric literal"},

	PAR001: {PAR001, "parser", "syntax", "Unexpected token"},
	PAR002: {PAR002, "parser", "syntax", "Missing closing delimiter"},
	PAR003: {PAR003, "parser", "syntax", "Invalid function declaration"},
	PAR004: {PAR004, "parser", "syntax", "Invalid ADT declaration"},
	PAR005: {PAR005, "parser", "syntax", "Invalid impl block"},
	PAR006: {PAR006, "parser", "syntax", "Invalid type parameter list"},
	PAR007: {PAR007, "parser", "syntax", "Missing statement separator"},

	DCL001: {DCL001, "declare", "namespace", "Duplicate declaration"},
	DCL002: {DCL002, "declare", "namespace", "Duplicate module"},

	RSV001: {RSV001, "fill", "resolution", "Unresolved type"},
	RSV002: {RSV002, "fill", "generic", "Unsatisfied bound"},
	RSV003: {RSV003, "fill", "interface", "Missing interface method"},
	RSV004: {RSV004, "fill", "interface", "Incompatible method signature"},
	RSV005: {RSV005, "fill", "resolution", "Unknown field initializer type"},

	VIS001: {VIS001, "lower", "visibility", "Private declaration inaccessible"},
	VIS002: {VIS002, "fill", "visibility", "Module-private declaration inaccessible"},

	TYP001: {TYP001, "lower", "type", "Operand type mismatch"},
	TYP002: {TYP002, "lower", "type", "No operator overload found"},
	TYP003: {TYP003, "lower", "type", "Non-bool condition"},
	TYP004: {TYP004, "lower", "type", "Wrong argument type"},
	TYP005: {TYP005, "lower", "type", "`is` against non-type operand"},
	TYP006: {TYP006, "lower", "type", "Return type mismatch"},
	TYP007: {TYP007, "lower", "resolution", "Unresolved name"},
	TYP008: {TYP008, "lower", "shape", "Members cannot be called"},
	TYP009: {TYP009, "lower", "type", "Branch types do not unify"},

	INI001: {INI001, "lower", "initialization", "Uninitialized field"},
	INI002: {INI002, "lower", "initialization", "Method call before full init"},
	INI003: {INI003, "lower", "initialization", "Immutable assignment"},

	SHP001: {SHP001, "lower", "shape", "Wrong arity"},
	SHP002: {SHP002, "lower", "shape", "Variadic misuse"},
	SHP003: {SHP003, "lower", "shape", "Constructor resolution failure"},
	SHP004: {SHP004, "lower", "shape", "break outside loop"},

	GEN001: {GEN001, "instantiate", "generic", "Wrong type-argument count"},
	GEN002: {GEN002, "instantiate", "generic", "Unsatisfied bound"},
	GEN003: {GEN003, "instantiate", "generic", "Unresolvable instance"},

	LDR001: {LDR001, "load", "module", "Module not found"},
	LDR002: {LDR002, "load", "module", "Circular module dependency"},
	LDR003: {LDR003, "load", "module", "Module name mismatch"},
	LDR004: {LDR004, "load", "module", "Import not exported"},
}

// Lookup returns descriptive information about an error code.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}

// IsPhase reports whether code belongs to the named phase.
func IsPhase(code, phase string) bool {
	info, ok := Lookup(code)
	return ok && info.Phase == phase
}
